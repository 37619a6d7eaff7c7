package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/bookswap/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 作者/分类的自然键唯一索引在这里落地,是幂等Upsert的并发安全基础
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&AuthorModel{},
		&CategoryModel{},
		&BookModel{},
		&BookRequestModel{},
		&FavouriteCategoryModel{},
		&FavouriteAuthorModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"uniqueIndex;size:30;not null;comment:用户名"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// AuthorModel GORM作者模型
// 设计说明:
// 1. 自然键(first_name,last_name)有复合唯一索引
// 2. 去重依赖该索引+INSERT IGNORE语义,不做check-then-insert(竞态)
type AuthorModel struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"uniqueIndex:idx_author_name;size:50;not null;comment:名"`
	LastName  string `gorm:"uniqueIndex:idx_author_name;size:50;not null;comment:姓"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// CategoryModel GORM分类模型
// 自然键name有唯一索引,去重语义与AuthorModel一致
type CategoryModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;size:100;not null;comment:分类名"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// BookModel GORM图书模型
// 设计说明:
// 1. OwnerID关联提供者,一本书同一时刻只属于一个用户的交换列表
// 2. Authors通过book_authors联结表实现多对多(显式外键列名book_id/author_id)
// 3. 仲裁/级联删除通过SELECT FOR UPDATE锁定该表的行实现按图书串行化
type BookModel struct {
	ID         uint           `gorm:"primaryKey"`
	Title      string         `gorm:"index:idx_title;size:200;not null;comment:书名"`
	CategoryID uint           `gorm:"index;not null;comment:分类ID"`
	Category   CategoryModel  `gorm:"foreignKey:CategoryID"`
	Authors    []AuthorModel  `gorm:"many2many:book_authors;joinForeignKey:BookID;joinReferences:AuthorID"`
	OwnerID    uint           `gorm:"index;not null;comment:提供者用户ID"`
	CreatedAt  time.Time      `gorm:"comment:创建时间"`
	UpdatedAt  time.Time      `gorm:"comment:更新时间"`
	DeletedAt  gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookRequestModel GORM交换请求模型
// 设计说明:
// 1. Status使用tinyint存储(1待仲裁2已接受3已拒绝)
// 2. 没有(book_id,requester_id)唯一索引:同一用户允许多条请求(保留原始行为)
// 3. 请求是硬删除(撤回/级联清理后记录彻底消失),不用软删除
type BookRequestModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      uint      `gorm:"index;not null;comment:图书ID"`
	RequesterID uint      `gorm:"index;not null;comment:请求者用户ID"`
	Status      int       `gorm:"index;type:tinyint;default:1;comment:状态(1待仲裁2已接受3已拒绝)"`
	CreatedAt   time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookRequestModel) TableName() string {
	return "book_requests"
}

// FavouriteCategoryModel 用户收藏分类联结表
// 复合主键保证同一收藏只有一条记录,重复收藏用INSERT IGNORE吸收
type FavouriteCategoryModel struct {
	UserID     uint `gorm:"primaryKey;comment:用户ID"`
	CategoryID uint `gorm:"primaryKey;comment:分类ID"`
}

// TableName 指定表名
func (FavouriteCategoryModel) TableName() string {
	return "user_favourite_categories"
}

// FavouriteAuthorModel 用户收藏作者联结表
type FavouriteAuthorModel struct {
	UserID   uint `gorm:"primaryKey;comment:用户ID"`
	AuthorID uint `gorm:"primaryKey;comment:作者ID"`
}

// TableName 指定表名
func (FavouriteAuthorModel) TableName() string {
	return "user_favourite_authors"
}
