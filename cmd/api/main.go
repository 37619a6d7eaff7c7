package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/xiebiao/bookswap/internal/application/book"
	apprequest "github.com/xiebiao/bookswap/internal/application/request"
	appuser "github.com/xiebiao/bookswap/internal/application/user"
	"github.com/xiebiao/bookswap/internal/domain/book"
	"github.com/xiebiao/bookswap/internal/domain/user"
	"github.com/xiebiao/bookswap/internal/infrastructure/config"
	"github.com/xiebiao/bookswap/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookswap/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookswap/internal/interface/http/handler"
	"github.com/xiebiao/bookswap/internal/interface/http/middleware"
	"github.com/xiebiao/bookswap/pkg/jwt"
	"github.com/xiebiao/bookswap/pkg/metrics"
	"github.com/xiebiao/bookswap/pkg/mq"
	"github.com/xiebiao/bookswap/pkg/response"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go里有等价的Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息队列（可选）
	var publisher mq.EventPublisher = mq.NopPublisher{}
	if cfg.MQ.Enabled {
		p, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, "topic")
		if err != nil {
			log.Fatalf("初始化RabbitMQ失败: %v", err)
		}
		defer p.Close()
		// 熔断保护:Broker故障时快速失败,不拖慢业务请求
		publisher = mq.NewBreakerPublisher(p)
	}

	// 6. 依赖注入（手动组装）
	// 学习要点：依赖注入链
	// Repository ← Service/Filter ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	bookRepo := mysql.NewBookRepository(db)
	authorRepo := mysql.NewAuthorRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	requestRepo := mysql.NewRequestRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	availabilityFilter := book.NewAvailabilityFilter(requestRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	profileUseCase := appuser.NewGetProfileUseCase(userRepo, authorRepo, categoryRepo)
	favouritesUseCase := appuser.NewFavouritesUseCase(userRepo, authorRepo, categoryRepo)

	addBookUseCase := appbook.NewAddBookOfferUseCase(bookRepo, authorRepo, categoryRepo, userRepo, txManager)
	deleteBookUseCase := appbook.NewDeleteBookOfferUseCase(bookRepo, requestRepo, txManager, publisher)
	listBooksUseCase := appbook.NewListBookOffersUseCase(bookRepo)
	getBookUseCase := appbook.NewGetBookUseCase(bookRepo)
	availableUseCase := appbook.NewAvailableBooksUseCase(bookRepo, availabilityFilter)
	searchUseCase := appbook.NewSearchBooksUseCase(bookRepo, authorRepo, availabilityFilter)
	recommendUseCase := appbook.NewRecommendBooksUseCase(bookRepo, userRepo, availabilityFilter)

	requestBookUseCase := apprequest.NewRequestBookUseCase(requestRepo, bookRepo, userRepo, publisher)
	deleteRequestUseCase := apprequest.NewDeleteRequestUseCase(requestRepo, bookRepo, txManager)
	selectRequesterUseCase := apprequest.NewSelectRequesterUseCase(requestRepo, bookRepo, txManager, publisher)
	listMyRequestsUseCase := apprequest.NewListUserRequestsUseCase(requestRepo, bookRepo)
	listBookRequestsUseCase := apprequest.NewListBookRequestsUseCase(requestRepo, bookRepo, userRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, profileUseCase, favouritesUseCase)
	bookHandler := handler.NewBookHandler(
		addBookUseCase, deleteBookUseCase, listBooksUseCase, getBookUseCase,
		availableUseCase, searchUseCase, recommendUseCase,
	)
	requestHandler := handler.NewRequestHandler(
		requestBookUseCase, deleteRequestUseCase, selectRequesterUseCase,
		listMyRequestsUseCase, listBookRequestsUseCase,
	)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, userHandler, bookHandler, requestHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	bookHandler *handler.BookHandler,
	requestHandler *handler.RequestHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register) // 公开
			users.POST("/login", userHandler.Login)       // 公开

			authed := users.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("/logout", userHandler.Logout)
				authed.GET("/profile", userHandler.GetProfile)
				authed.POST("/favourites/categories", userHandler.AddFavouriteCategory)
				authed.DELETE("/favourites/categories", userHandler.RemoveFavouriteCategory)
				authed.POST("/favourites/authors", userHandler.AddFavouriteAuthor)
				authed.DELETE("/favourites/authors", userHandler.RemoveFavouriteAuthor)
			}
		}

		// 图书模块
		books := v1.Group("/books")
		{
			books.GET("/:id", bookHandler.GetBook) // 公开:图书详情

			authed := books.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.POST("", bookHandler.AddBookOffer)
				authed.DELETE("/:id", bookHandler.DeleteBookOffer)
				authed.GET("/mine", bookHandler.ListMyBookOffers)
				authed.GET("/available", bookHandler.AvailableBooks)
				authed.GET("/search", bookHandler.SearchBooks)
				authed.GET("/recommendations/categories", bookHandler.RecommendByCategories)
				authed.GET("/recommendations/authors", bookHandler.RecommendByAuthors)
			}
		}

		// 交换请求模块（全部需要登录）
		requests := v1.Group("/requests")
		requests.Use(authMiddleware.RequireAuth())
		{
			requests.POST("", requestHandler.RequestBook)
			requests.POST("/select", requestHandler.SelectRequester)
			requests.GET("/mine", requestHandler.ListMyRequests)
			requests.GET("/books/:bookId", requestHandler.ListBookRequests)
			requests.DELETE("/books/:bookId", requestHandler.DeleteRequest)
		}
	}
}
