package main

import (
	"context"
	"time"

	"cloud.google.com/go/storage"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/youssef9656/server/internal/pdf"
	"github.com/youssef9656/server/migrations"
	"github.com/youssef9656/server/pkg/config"
	"github.com/youssef9656/server/pkg/fsx"
	"github.com/youssef9656/server/pkg/fsx/fsxgcs"
	"github.com/youssef9656/server/pkg/fsx/fsxlocal"
	"github.com/youssef9656/server/pkg/fsx/fsxs3"
	"github.com/youssef9656/server/pkg/iam/auth"
	"github.com/youssef9656/server/pkg/iam/user"
	"github.com/youssef9656/server/pkg/iam/user/userinfra"
	"github.com/youssef9656/server/pkg/logx"
	"github.com/youssef9656/server/pkg/mailx"
	"github.com/youssef9656/server/pkg/ratelimit"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyapi"
	"github.com/youssef9656/server/recruitment/candidacy/candidacyinfra"
	"github.com/youssef9656/server/recruitment/candidacy/candidacysrv"
	"github.com/youssef9656/server/recruitment/contact"
	"github.com/youssef9656/server/recruitment/contact/contactapi"
	"github.com/youssef9656/server/recruitment/contact/contactinfra"
	"github.com/youssef9656/server/recruitment/contact/contactsrv"
	"github.com/youssef9656/server/recruitment/notification"
	"github.com/youssef9656/server/recruitment/notification/notificationapi"
	"github.com/youssef9656/server/recruitment/notification/notificationinfra"
	"github.com/youssef9656/server/recruitment/notification/notificationsrv"
	"github.com/youssef9656/server/recruitment/notification/worker"
	"github.com/youssef9656/server/recruitment/resume"
	"github.com/youssef9656/server/recruitment/resume/resumeapi"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config

	// Infrastructure
	DB         *sqlx.DB
	Mongo      *mongo.Client
	Redis      *redis.Client
	FileSystem fsx.FileSystem
	Mailer     mailx.Sender
	Queue      notification.JobQueue
	Limiter    ratelimit.Limiter

	// Repositories
	Users       user.UserRepository
	Candidacies candidacy.Repository
	Contacts    contact.Repository

	// Services
	TokenService     auth.TokenService
	ResumeLinks      auth.ResumeLinkTokens
	AuthService      *auth.AuthService
	ResumeStore      *resume.Store
	CandidacyService *candidacysrv.Service
	ContactService   *contactsrv.Service
	Dispatcher       *notificationsrv.Dispatcher
	MailWorker       *worker.MailWorker

	// API Handlers
	AuthHandlers         *auth.AuthHandlers
	CandidacyHandlers    *candidacyapi.CandidacyHandlers
	ResumeHandlers       *resumeapi.ResumeHandlers
	ContactHandlers      *contactapi.ContactHandlers
	NotificationHandlers *notificationapi.NotificationHandlers

	// Middleware
	AuthMiddleware *auth.TokenMiddleware
}

// NewContainer initializes the dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) *Container {
	c := &Container{Config: cfg}
	c.initInfrastructure(ctx)
	c.initRepositories(ctx)
	c.initServices(ctx)
	return c
}

func (c *Container) initInfrastructure(ctx context.Context) {
	cfg := c.Config

	// 1. Database
	switch cfg.Store.Driver {
	case "postgres":
		db, err := sqlx.Connect("postgres", cfg.Store.DSN())
		if err != nil {
			logx.Fatalf("Failed to connect to database: %v", err)
		}
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
		c.DB = db

		if cfg.Store.Migrate {
			if err := migrations.Apply(ctx, db); err != nil {
				logx.Fatalf("Failed to apply migrations: %v", err)
			}
		}
	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Store.MongoURI))
		if err != nil {
			logx.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			logx.Fatalf("Failed to reach MongoDB: %v", err)
		}
		c.Mongo = client
	case "memory":
		logx.Warn("STORE_DRIVER=memory, data is lost on restart")
	default:
		logx.Fatalf("Unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	// 2. Redis, optional
	if cfg.Redis.Enabled() {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Pass,
			DB:       0,
		})
		if err := c.Redis.Ping(ctx).Err(); err != nil {
			logx.Warnf("Failed to connect to Redis: %v", err)
		}
	}

	// 3. File storage
	switch cfg.Files.Driver {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Files.AWSRegion))
		if err != nil {
			logx.Fatalf("unable to load SDK config, %v", err)
		}
		c.FileSystem = fsxs3.NewS3FileSystem(s3.NewFromConfig(awsCfg), cfg.Files.AWSBucket, "")
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			logx.Fatalf("unable to create GCS client, %v", err)
		}
		c.FileSystem = fsxgcs.NewGCSFileSystem(client, cfg.Files.GCSBucket, "")
	default:
		c.FileSystem = fsxlocal.NewLocalFileSystem(cfg.Files.UploadDir)
	}

	// 4. Mail
	switch cfg.Mail.Driver {
	case "smtp":
		c.Mailer = mailx.NewSMTPSender(cfg.Mail.SMTPHost, cfg.Mail.SMTPPort, cfg.Mail.SMTPUser, cfg.Mail.SMTPPass, cfg.Mail.From)
	case "gmail":
		sender, err := mailx.NewGmailSender(ctx, cfg.Mail.GmailCredentials, cfg.Mail.GmailToken, cfg.Mail.From)
		if err != nil {
			logx.Fatalf("Failed to init Gmail sender: %v", err)
		}
		c.Mailer = sender
	default:
		c.Mailer = mailx.NewConsoleSender()
	}

	// 5. Queue and rate limiter follow Redis availability
	if c.Redis != nil {
		c.Queue = notificationinfra.NewRedisQueue(c.Redis, cfg.Notifier.QueueName)
		c.Limiter = ratelimit.NewRedisLimiter(c.Redis)
	} else {
		c.Queue = notificationinfra.NewMemoryQueue(0)
		c.Limiter = ratelimit.NewMemoryLimiter()
	}
}

func (c *Container) initRepositories(ctx context.Context) {
	switch {
	case c.DB != nil:
		c.Users = userinfra.NewPostgresUserRepository(c.DB)
		c.Candidacies = candidacyinfra.NewPostgresCandidacyRepository(c.DB)
		c.Contacts = contactinfra.NewPostgresContactRepository(c.DB)
	case c.Mongo != nil:
		db := c.Mongo.Database(c.Config.Store.MongoDB)
		users := userinfra.NewMongoUserRepository(db)
		candidacies := candidacyinfra.NewMongoCandidacyRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			logx.Fatalf("Failed to create user indexes: %v", err)
		}
		if err := candidacies.EnsureIndexes(ctx); err != nil {
			logx.Fatalf("Failed to create candidacy indexes: %v", err)
		}
		c.Users = users
		c.Candidacies = candidacies
		c.Contacts = contactinfra.NewMongoContactRepository(db)
	default:
		c.Users = userinfra.NewMemoryUserRepository()
		c.Candidacies = candidacyinfra.NewMemoryCandidacyRepository()
		c.Contacts = contactinfra.NewMemoryContactRepository()
	}
}

func (c *Container) initServices(ctx context.Context) {
	cfg := c.Config

	// --- IAM ---
	secret := cfg.Auth.JWTSecret
	if secret == "" {
		if cfg.IsProduction() {
			logx.Fatal("JWT_SECRET must be set in production")
		}
		logx.Warn("JWT_SECRET is not set, using default (unsafe for production)")
		secret = "dev-secret-please-change-me"
	}
	tokens := auth.NewJWTService(secret, cfg.Auth.AccessTokenTTL, cfg.Auth.SessionTokenTTL, cfg.Auth.Issuer)
	c.TokenService = tokens
	c.ResumeLinks = tokens
	c.AuthService = auth.NewAuthService(c.Users, c.TokenService, auth.NewBcryptPasswordService())
	if err := c.AuthService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		logx.Errorf("Failed to bootstrap admin account: %v", err)
	}

	// --- Notifications ---
	templates, err := notification.LoadTemplates(cfg.Notifier.TemplatesFile)
	if err != nil {
		logx.Fatalf("Failed to load message templates: %v", err)
	}
	c.Dispatcher = notificationsrv.NewDispatcher(c.Mailer, c.Candidacies, c.Queue, notificationsrv.Config{
		OpsMailbox: cfg.Mail.OpsMailbox,
		PublicURL:  cfg.PublicURL,
		Templates:  templates,
		Links:      c.ResumeLinks,
	})
	workerCfg := worker.DefaultConfig()
	workerCfg.Workers = cfg.Notifier.Workers
	c.MailWorker = worker.NewMailWorker(c.Queue, c.Mailer, workerCfg)

	// --- Recruitment ---
	c.ResumeStore = resume.NewStore(c.FileSystem, pdf.NewRenderer())
	c.CandidacyService = candidacysrv.NewService(c.Candidacies, c.ResumeStore, c.Dispatcher, cfg.Files.MaxUpload)
	c.ContactService = contactsrv.NewService(c.Contacts, c.Dispatcher)

	// --- Handlers ---
	c.AuthMiddleware = auth.NewAuthMiddleware(c.TokenService)
	c.AuthHandlers = auth.NewAuthHandlers(c.AuthService)
	c.CandidacyHandlers = candidacyapi.NewCandidacyHandlers(c.CandidacyService)
	c.ResumeHandlers = resumeapi.NewResumeHandlers(c.ResumeStore, c.ResumeLinks)
	c.ContactHandlers = contactapi.NewContactHandlers(c.ContactService)
	c.NotificationHandlers = notificationapi.NewNotificationHandlers(c.Dispatcher)
}

// Close releases connections in reverse order of creation
func (c *Container) Close(ctx context.Context) {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Warnf("redis close: %v", err)
		}
	}
	if c.Mongo != nil {
		if err := c.Mongo.Disconnect(ctx); err != nil {
			logx.Warnf("mongo disconnect: %v", err)
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			logx.Warnf("db close: %v", err)
		}
	}
}
