package app

import (
	"context"
	"log/slog"

	"github.com/ShivanshCoding36/college-companion/internal/config"
	http_attendance "github.com/ShivanshCoding36/college-companion/internal/delivery/http/attendance"
	http_health "github.com/ShivanshCoding36/college-companion/internal/delivery/http/health"
	http_init "github.com/ShivanshCoding36/college-companion/internal/delivery/http/init"
	http_access_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/access"
	http_identity_middleware "github.com/ShivanshCoding36/college-companion/internal/delivery/http/middleware/identity"
	http_notes "github.com/ShivanshCoding36/college-companion/internal/delivery/http/notes"
	http_room "github.com/ShivanshCoding36/college-companion/internal/delivery/http/room"
	http_survival "github.com/ShivanshCoding36/college-companion/internal/delivery/http/survival"
	http_swagger "github.com/ShivanshCoding36/college-companion/internal/delivery/http/swagger"
	http_user "github.com/ShivanshCoding36/college-companion/internal/delivery/http/user"
	ws_room "github.com/ShivanshCoding36/college-companion/internal/delivery/ws/room"
	infra_llm "github.com/ShivanshCoding36/college-companion/internal/infra/llm"
	infra_memory_roomstore "github.com/ShivanshCoding36/college-companion/internal/infra/memory/roomstore"
	infra_mongo_attendance "github.com/ShivanshCoding36/college-companion/internal/infra/mongo/attendance"
	infra_mongo_init "github.com/ShivanshCoding36/college-companion/internal/infra/mongo/init"
	infra_mongo_notes "github.com/ShivanshCoding36/college-companion/internal/infra/mongo/notes"
	infra_mongo_toolkit "github.com/ShivanshCoding36/college-companion/internal/infra/mongo/toolkit"
	infra_pg_init "github.com/ShivanshCoding36/college-companion/internal/infra/postgres/init"
	infra_postgres_user "github.com/ShivanshCoding36/college-companion/internal/infra/postgres/user"
	infra_redis_completion_cache "github.com/ShivanshCoding36/college-companion/internal/infra/redis/completion"
	infra_redis_init "github.com/ShivanshCoding36/college-companion/internal/infra/redis/init"
	infra_redis_roomstore "github.com/ShivanshCoding36/college-companion/internal/infra/redis/roomstore"
	infra_s3 "github.com/ShivanshCoding36/college-companion/internal/infra/s3"
	"github.com/ShivanshCoding36/college-companion/internal/infra/s3mock"
	usecase_attendance "github.com/ShivanshCoding36/college-companion/internal/usecase/attendance"
	usecase_notes "github.com/ShivanshCoding36/college-companion/internal/usecase/notes"
	usecase_room "github.com/ShivanshCoding36/college-companion/internal/usecase/room"
	usecase_survival "github.com/ShivanshCoding36/college-companion/internal/usecase/survival"
	usecase_user "github.com/ShivanshCoding36/college-companion/internal/usecase/user"
)

func Go(cfg *config.Config) {
	pgConn := infra_pg_init.MustEstablishConn(cfg.Postgres)
	mongoDB := infra_mongo_init.MustEstablishConn(cfg.Mongo)

	checks := map[string]http_health.Check{
		"postgres": func(ctx context.Context) error {
			return pgConn.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return mongoDB.Client().Ping(ctx, nil)
		},
	}

	var (
		roomStore usecase_room.RoomStore
		llmOpts   []infra_llm.Option
	)
	if cfg.Rooms.Store == "memory" {
		slog.Warn("room store is in memory, rooms will not survive a restart or be shared between instances")
		roomStore = infra_memory_roomstore.New()
	} else {
		redisConn := infra_redis_init.MustEstablishConn(cfg.Redis)
		roomStore = infra_redis_roomstore.New(redisConn, cfg.Redis.Key)
		checks["redis"] = func(ctx context.Context) error {
			return redisConn.WithContext(ctx).Ping().Err()
		}
		completionCache := infra_redis_completion_cache.New(redisConn, cfg.Redis.Key+":completions")
		llmOpts = append(llmOpts, infra_llm.WithCache(completionCache, cfg.LLM.CacheTTL))
	}

	llm := infra_llm.New(cfg.LLM, llmOpts...)

	var noteFiles usecase_notes.FileStorage
	if !cfg.S3.Enabled() {
		slog.Warn("no S3 credentials, note files are kept in memory")
		noteFiles = s3mock.New()
	} else {
		s3conn := infra_s3.MustEstablishConn(cfg.S3)
		storage, err := infra_s3.New(context.Background(), s3conn, cfg.S3.Bucket, cfg.S3.Prefix)
		if err != nil {
			panic(err)
		}
		noteFiles = storage
	}

	userRepository := infra_postgres_user.New(pgConn)
	attendanceRepository := infra_mongo_attendance.New(mongoDB.Collection(infra_mongo_attendance.Collection))
	toolkitRepository := infra_mongo_toolkit.New(
		mongoDB.Collection(infra_mongo_toolkit.DoubtsCollection),
		mongoDB.Collection(infra_mongo_toolkit.QuestionSetsCollection),
	)
	notesRepository := infra_mongo_notes.New(mongoDB.Collection(infra_mongo_notes.Collection))

	roomUC := usecase_room.New(roomStore, usecase_room.WithExpiry(cfg.Rooms.MaxAge, cfg.Rooms.CleanupPeriod))
	userUC := usecase_user.New(userRepository)
	attendanceUC := usecase_attendance.New(attendanceRepository, llm)
	survivalUC := usecase_survival.New(toolkitRepository, llm)
	notesUC := usecase_notes.New(notesRepository, noteFiles)

	hub := ws_room.NewHub(roomUC)
	identity := http_identity_middleware.New()

	controllerPool := http_init.NewControllerPool(http_access_middleware.ReadOnly(cfg.HTTP.Mode))
	controllerPool.Add(http_swagger.New())
	controllerPool.Add(http_health.New(checks))
	controllerPool.Add(http_room.New(roomUC, identity))
	controllerPool.Add(ws_room.NewController(hub))
	controllerPool.Add(http_user.New(userUC))
	controllerPool.Add(http_attendance.New(attendanceUC, identity))
	controllerPool.Add(http_survival.New(survivalUC, identity))
	controllerPool.Add(http_notes.New(notesUC, identity))

	controllerPool.Register()
	controllerPool.RunAll(cfg.HTTP.Port)
}
