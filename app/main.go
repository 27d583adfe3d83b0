package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/idgen"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository"
	mysqlRepo "github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/mysql"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/mysql/model"
	myRedisCache "github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/redis"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/rest/middleware"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/usecase/discussion"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/usecase/user"
)

const (
	defaultTimeout      = 30
	defaultAddress      = ":9090"
	defaultCacheDB      = 0
	defaultBloomBitSize = 10000000
	defaultSnowflakeID  = 1
	dbMaxRetry          = 10
	dbRetryIntervalSec  = 2
)

func init() {
	if err := godotenv.Load(); err != nil {
		logrus.Warn("no .env file loaded, reading configuration from the environment")
	}

	if os.Getenv("LOG_FORMAT") == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logrus.SetLevel(lvl)
	}
}

func main() {
	//prepare database
	dbHost := os.Getenv("DATABASE_HOST")
	dbPort := os.Getenv("DATABASE_PORT")
	dbUser := os.Getenv("DATABASE_USER")
	dbPass := os.Getenv("DATABASE_PASS")
	dbName := os.Getenv("DATABASE_NAME")
	connection := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", dbUser, dbPass, dbHost, dbPort, dbName)
	val := url.Values{}
	val.Add("parseTime", "1")
	val.Add("loc", "Local")
	val.Add("charset", "utf8mb4")
	dsn := fmt.Sprintf("%s?%s", connection, val.Encode())

	db, err := openDB(dsn)
	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()

	if autoMigrate, _ := strconv.ParseBool(os.Getenv("DATABASE_AUTO_MIGRATE")); autoMigrate {
		if err := db.AutoMigrate(&model.User{}, &model.Discussion{}); err != nil {
			logrus.Fatalf("failed to migrate database: %v", err)
		}
	}

	// prepare cache
	cacheHost := os.Getenv("CACHE_HOST")
	cachePort := os.Getenv("CACHE_PORT")
	cachePass := os.Getenv("CACHE_PASS")
	cacheDB, err := strconv.Atoi(os.Getenv("CACHE_DB"))
	if err != nil {
		logrus.Warn("failed to parse CACHE_DB, using default cacheDB")
		cacheDB = defaultCacheDB
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cacheHost + ":" + cachePort,
		Password: cachePass,
		DB:       cacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()

	if _, err = client.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	snowflakeNode, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		snowflakeNode = defaultSnowflakeID
	}
	if err := idgen.Init(snowflakeNode); err != nil {
		logrus.Fatalf("failed to init snowflake node: %v", err)
	}

	// prepare gin
	route := gin.Default()
	route.Use(middleware.CORS(splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))...))
	timeout, err := strconv.Atoi(os.Getenv("CONTEXT_TIMEOUT"))
	if err != nil {
		logrus.Warn("failed to parse timeout, using default timeout")
		timeout = defaultTimeout
	}
	route.Use(middleware.SetRequestContextWithTimeout(time.Duration(timeout) * time.Second))

	// Prepare Repository
	userRepo := mysqlRepo.NewUserRepository(db)

	// Discussion相关的三层架构
	// 1. DB层
	discussionDBRepo := mysqlRepo.NewDiscussionDBRepository(db)
	// 2. Cache层
	discussionCache := myRedisCache.NewDiscussionCache(client)
	// 3. Repository协调层
	discussionRepo := repository.NewDiscussionRepository(discussionDBRepo, discussionCache)

	bloomBitSize, err := strconv.ParseUint(os.Getenv("BLOOM_FILTER_SIZE"), 10, 64)
	if err != nil {
		logrus.Warn("failed to parse bloom bit size, using default size")
		bloomBitSize = defaultBloomBitSize
	}
	bloomRepo := myRedisCache.NewRedisBloomRepo(client, myRedisCache.KeyDiscussionBloom, bloomBitSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build service Layer
	discussionSvc := discussion.NewService(discussionRepo, userRepo, bloomRepo)
	userSvc := user.NewService(userRepo)
	discussionHandler := rest.NewDiscussionHandler(discussionSvc)
	userHandler := rest.NewUserHandler(userSvc)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logrus.Fatal("JWT_SECRET is required")
	}
	authMiddleware := middleware.AuthMiddleware(jwtSecret)

	// Prepare bloom filter
	if err := discussionSvc.InitBloomFilter(ctx); err != nil {
		logrus.Errorf("failed to init bloom filter: %v", err)
		return
	}

	// Register routes
	discussions := route.Group("/discussions")
	{
		discussions.GET("", discussionHandler.Fetch)
		discussions.GET("/question/:questionId", discussionHandler.FetchByQuestion)
		discussions.GET("/question/:questionId/solutions", discussionHandler.FetchSolutions)
		discussions.GET("/question/:questionId/count", discussionHandler.CountByQuestion)
		discussions.GET("/users/search", userHandler.Search)
		discussions.GET("/:id", discussionHandler.GetByID)
		discussions.POST("/view/:id", discussionHandler.IncrementViews)
	}

	authorized := discussions.Group("")
	authorized.Use(authMiddleware)
	{
		authorized.POST("", discussionHandler.Store)
		authorized.POST("/:id/reply", discussionHandler.AddReply)
		authorized.POST("/:id/like", discussionHandler.Like)
		authorized.POST("/:id/dislike", discussionHandler.Dislike)
		authorized.PATCH("/:id", discussionHandler.Edit)
		authorized.DELETE("/:id", discussionHandler.Delete)
	}

	// Start Server
	address := os.Getenv("SERVER_ADDRESS")
	if address == "" {
		address = defaultAddress
	}
	srv := &http.Server{
		Addr:    address,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("listen: %s", err) // nolint
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exiting")
}

func openDB(dsn string) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
		if err == nil {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}
		logrus.Warnf("failed to connect to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}

func splitList(s string) []string {
	var res []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			res = append(res, part)
		}
	}
	return res
}
