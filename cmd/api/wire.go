//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()
//
// 核心概念：
// - Provider: 提供依赖的构造函数（如NewUserRepository）
// - Injector: 声明最终要构造的目标类型（如*gin.Engine）
// - wire.Build(): 告诉Wire如何组装依赖链

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appbook "github.com/xiebiao/bookswap/internal/application/book"
	apprequest "github.com/xiebiao/bookswap/internal/application/request"
	appuser "github.com/xiebiao/bookswap/internal/application/user"
	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/request"
	"github.com/xiebiao/bookswap/internal/domain/user"
	"github.com/xiebiao/bookswap/internal/infrastructure/config"
	"github.com/xiebiao/bookswap/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookswap/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookswap/internal/interface/http/handler"
	"github.com/xiebiao/bookswap/internal/interface/http/middleware"
	"github.com/xiebiao/bookswap/pkg/jwt"
	"github.com/xiebiao/bookswap/pkg/mq"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接
var infrastructureSet = wire.NewSet(
	config.Load,     // 加载配置文件
	mysql.NewDB,     // 创建MySQL连接
	redis.NewClient, // 创建Redis连接
)

// repositorySet 仓储层依赖
// 包含：所有Repository的构造函数和接口绑定
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,     // 用户仓储
	mysql.NewBookRepository,     // 图书仓储
	mysql.NewAuthorRepository,   // 作者仓储
	mysql.NewCategoryRepository, // 分类仓储
	mysql.NewRequestRepository,  // 交换请求仓储
	mysql.NewTxManager,          // 事务管理器

	// 接口绑定:请求仓储同时满足可用性过滤所需的窄接口,
	// 事务管理器满足应用层的Transactor接口
	wire.Bind(new(book.AcceptedRequestChecker), new(request.Repository)),
	wire.Bind(new(appbook.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(apprequest.Transactor), new(*mysql.TxManager)),
)

// domainSet 领域层依赖
// 包含：领域服务和领域过滤器的构造函数
var domainSet = wire.NewSet(
	user.NewService,            // 用户领域服务
	book.NewAvailabilityFilter, // 可用性过滤器
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,   // 用户注册用例
	appuser.NewLoginUseCase,      // 用户登录用例
	appuser.NewLogoutUseCase,     // 用户登出用例
	appuser.NewGetProfileUseCase, // 个人资料用例
	appuser.NewFavouritesUseCase, // 收藏管理用例

	appbook.NewAddBookOfferUseCase,    // 上架用例
	appbook.NewDeleteBookOfferUseCase, // 下架用例
	appbook.NewListBookOffersUseCase,  // 我的图书列表用例
	appbook.NewGetBookUseCase,         // 图书详情用例
	appbook.NewAvailableBooksUseCase,  // 可交换图书用例
	appbook.NewSearchBooksUseCase,     // 搜索用例
	appbook.NewRecommendBooksUseCase,  // 推荐用例

	apprequest.NewRequestBookUseCase,      // 发起请求用例
	apprequest.NewDeleteRequestUseCase,    // 撤回请求用例
	apprequest.NewSelectRequesterUseCase,  // 仲裁用例
	apprequest.NewListUserRequestsUseCase, // 我的请求列表用例
	apprequest.NewListBookRequestsUseCase, // 图书请求列表用例
)

// middlewareSet 中间件依赖
// 包含：JWT管理器、认证中间件、消息发布者
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	provideEventPublisher,        // 消息发布者（MQ未启用时为空实现）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
// 包含：所有Handler的构造函数
var handlerSet = wire.NewSet(
	handler.NewUserHandler,    // 用户处理器
	handler.NewBookHandler,    // 图书处理器
	handler.NewRequestHandler, // 交换请求处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================

// provideJWTManager 从配置创建JWT管理器
// 教学要点：config.Config 包含多个字段，但jwt.NewManager只需要JWT相关的配置
// Wire无法自动知道如何从Config提取参数，所以需要手动编写Provider
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// provideEventPublisher 创建消息发布者
// 教学要点：MQ是可选依赖，未启用时注入空实现，业务代码无需判空
func provideEventPublisher(cfg *config.Config) (mq.EventPublisher, error) {
	if !cfg.MQ.Enabled {
		return mq.NopPublisher{}, nil
	}
	p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
	if err != nil {
		return nil, err
	}
	return mq.NewBreakerPublisher(p), nil
}

// provideGinEngine 创建并配置Gin引擎
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	requestHandler *handler.RequestHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	// 设置运行模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	// 路由注册与main.go共用同一份registerRoutes
	// (健康检查、/metrics、Swagger文档都在其中)
	registerRoutes(r, userHandler, bookHandler, requestHandler, authMiddleware)

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
// InitializeApp是Wire的入口函数（Injector）
// wire.Build() 告诉Wire需要哪些Provider来构建*gin.Engine
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
