package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
//  1. User是用户聚合的根实体,Username是业务唯一标识（数据库层保证唯一性）
//  2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
//  3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
//  4. 交换列表（用户提供的图书）不在实体上冗余:
//     图书所有权的唯一事实源是Book.OwnerID,按需通过BookRepository.FindByOwner查询
//  5. 收藏的分类/作者同理,通过Repository的收藏方法维护（join表）
type User struct {
	ID        uint
	Username  string // 登录名（唯一）
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
