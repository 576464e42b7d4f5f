package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wfunc/starvault/broadcast"
	"github.com/wfunc/starvault/config"
	"github.com/wfunc/starvault/gateway"
	"github.com/wfunc/starvault/logger"
	"github.com/wfunc/starvault/models"
	"github.com/wfunc/starvault/monitor"
	"github.com/wfunc/starvault/persistence"
	"github.com/wfunc/starvault/rpc"
	"github.com/wfunc/starvault/services"
	"github.com/wfunc/starvault/session"
	"github.com/wfunc/starvault/store"
	"github.com/wfunc/starvault/timer"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger.Init(cfg.Debug)
	defer logger.Log.Sync()

	db := openDatabase(cfg)
	defer db.Close()

	conn := services.NewConnectivity()
	roomAPI := services.NewRoomClient(cfg.Remote.RoomBaseURL, cfg.Remote.RequestTimeout, conn)
	inventoryAPI := services.NewInventoryClient(cfg.Remote.InventoryBaseURL, cfg.Remote.RequestTimeout, conn)

	mon := monitor.NewMonitor("starvault")
	go mon.StartServer(cfg.Gateway.MetricsAddress)

	sessions := session.NewManager()
	notifier := broadcast.NewUIBroadcaster(sessions)

	st := store.New(store.Deps{
		RoomAPI:      roomAPI,
		InventoryAPI: inventoryAPI,
		Connectivity: conn,
		DB:           db,
		Notifier:     notifier,
		Monitor:      mon,
		PollInterval: cfg.Sync.PollInterval,
		Profile: models.Profile{
			Nickname: cfg.Profile.Nickname,
			Class:    cfg.Profile.Class,
			Sound:    true,
		},
	})

	if err := st.Restore(); err != nil {
		logger.Log.Warnf("state restore incomplete: %v", err)
	}

	// 定时刷新目录与收藏
	timers := timer.NewManager()
	defer timers.Stop()
	timers.Schedule(0, 15*time.Minute, func() {
		if err := st.RefreshCatalog(); err != nil {
			logger.Log.Debugf("catalog refresh: %v", err)
		}
	})
	timers.Schedule(5*time.Second, 0, func() {
		if err := st.Vault().Refresh(); err != nil {
			logger.Log.Debugf("vault refresh: %v", err)
		}
	})

	rpcServer, err := rpc.NewServer(cfg.Gateway.RPCAddress, st)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	go rpcServer.Start()
	defer rpcServer.Stop()

	gw := gateway.New(cfg.Gateway.HTTPAddress, st, sessions, mon)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		logger.Log.Info("Shutting down.")
		gw.Shutdown()
		rpcServer.Stop()
		st.LeaveRoom()
		os.Exit(0)
	}()

	if err := gw.Start(); err != nil {
		logger.Log.Fatalf("gateway: %v", err)
	}
}

// openDatabase picks the persistence implementation from config.
func openDatabase(cfg *config.Config) persistence.Database {
	pg := cfg.Database.Postgres
	var (
		db  persistence.Database
		err error
	)
	switch cfg.Database.Driver {
	case "raw":
		db, err = persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		db, err = persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
	if err != nil {
		logger.Log.Fatalf("Failed to open database (%s): %v", cfg.Database.Driver, err)
	}
	return db
}
