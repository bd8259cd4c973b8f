// Package api contains all endpoints available
package api

import (
	"fmt"
	"time"

	"minicloud/file-api/auth"
	"minicloud/file-api/db"
	"minicloud/file-api/files"
	"minicloud/file-api/pkg/middleware"
	"minicloud/file-api/pkg/security"
	"minicloud/file-api/storage"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB     *gorm.DB
	Router *gin.Engine
	Auth   *auth.Service
	Files  *files.Service
	Blobs  storage.BlobStore
}

func NewRouter() (*API, error) {
	a := &API{}

	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	a.DB = database

	makeLogger()

	blobs, err := newBlobStore()
	if err != nil {
		return nil, err
	}
	a.Blobs = blobs

	a.Auth = &auth.Service{
		DB:    database,
		Argon: security.NewArgon(),
		Tokens: security.NewTokens(
			viper.GetString("jwt.secret"),
			time.Duration(viper.GetInt("jwt.ttl_hours"))*time.Hour,
		),
	}
	a.Files = &files.Service{
		DB:    database,
		Blobs: blobs,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = 5 << 20

	authed := middleware.NewAuthMiddleware(a.Auth)
	maxUploadSize := viper.GetInt64("upload.max_size")

	ath := router.Group("/auth", middleware.BodySizeLimiter(1<<20))
	{
		// POST /auth/register 	-> Registers a new user and returns a token
		ath.POST("/register", a.UserRegister)

		// POST /auth/login 	-> Logs in a user and returns a token
		ath.POST("/login", a.UserLogin)

		// POST /auth/validate 	-> Resolves a bearer token to its user
		ath.POST("/validate", a.AuthValidate)

		// POST /auth/refresh 	-> Trades a valid token for a fresh one
		ath.POST("/refresh", a.AuthRefresh)

		// POST /auth/logout 	-> Tokens are stateless, this is a no-op for clients
		ath.POST("/logout", a.AuthLogout)

		// GET /auth/health 	-> Service status
		ath.GET("/health", a.AuthHealth)
	}

	f := router.Group("/files", authed)
	{
		// POST /files/upload 		-> Uploads a new file
		f.POST("/upload", middleware.BodySizeLimiter(maxUploadSize), a.FileUpload)

		// GET /files/my-files 		-> Lists the caller's files
		f.GET("/my-files", a.FileList)

		// DELETE /files/:id 		-> Deletes an owned file and its blob
		f.DELETE("/:id", a.FileDelete)

		// POST /files/:id/share 	-> Generates a public short link
		f.POST("/:id/share", a.FileShare)

		// DELETE /files/:id/share 	-> Revokes the short link
		f.DELETE("/:id/share", a.FileRevokeShare)

		// GET /files/:id/public-url 	-> Returns the record incl. share state
		f.GET("/:id/public-url", a.FilePublicURL)
	}

	// GET /public/:code 	-> Unauthenticated short-link download
	router.GET("/public/:code", a.PublicDownload)

	// HEAD /api/heartbeat 	-> Used to check if the server is alive
	router.HEAD("/api/heartbeat", a.Heartbeat)

	return a, nil
}

func newBlobStore() (storage.BlobStore, error) {
	switch viper.GetString("storage.type") {
	case "s3":
		s, err := storage.NewS3()
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
		}
		return s, nil
	default:
		return storage.NewLocal(viper.GetString("storage.local_path"))
	}
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
