package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tributemc/tribute-gateway/src/configure"
	"github.com/tributemc/tribute-gateway/src/currency"
	"github.com/tributemc/tribute-gateway/src/discord"
	"github.com/tributemc/tribute-gateway/src/global"
	"github.com/tributemc/tribute-gateway/src/rcon"
	"github.com/tributemc/tribute-gateway/src/redis"
	"github.com/tributemc/tribute-gateway/src/server"
	"github.com/tributemc/tribute-gateway/src/storage"
)

func main() {
	config := configure.New()

	logrus.Info("tribute webhook gateway starting...")

	ctx, cancel := context.WithCancel(context.Background())
	gCtx := global.New(ctx, config)

	{
		sCtx, sDone := global.WithTimeout(gCtx, time.Second*15)
		store, err := storage.New(sCtx, storage.Options{
			Type:          config.Database.Type,
			SQLitePath:    config.Database.SQLite.Path,
			PostgresURI:   config.Database.Postgres.URI,
			MongoURI:      config.Database.Mongo.URI,
			MongoDatabase: config.Database.Mongo.Database,
		})
		if err != nil {
			logrus.Fatalf("storage, err=%v", err)
		}
		gCtx.Inst().Storage = store

		if config.Redis.URI != "" {
			rdb, err := redis.New(sCtx, config.Redis.URI)
			if err != nil {
				logrus.Fatalf("redis, err=%v", err)
			}
			gCtx.Inst().Redis = rdb
		}
		sDone()
	}

	gCtx.Inst().Currency = currency.New(config.CurrencyRates)
	gCtx.Inst().Rcon = rcon.New(rcon.Options{
		Host:            config.Rcon.Host,
		Port:            config.Rcon.Port,
		Password:        config.Rcon.Password,
		CommandTemplate: config.Rcon.Command,
		SuccessPatterns: config.Rcon.SuccessPatterns,
		ErrorPatterns:   config.Rcon.ErrorPatterns,
		Timeout:         time.Duration(config.Rcon.TimeoutSeconds) * time.Second,
	})
	gCtx.Inst().Discord = discord.New(config.Discord.WebhookURL)

	done := server.New(gCtx)
	logrus.Infof("http server listening on %s", config.API.Bind)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	sig := <-c
	logrus.Infof("sig=%v, gracefully shutting down...", sig)
	start := time.Now()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second * 10):
		logrus.Warn("http server shutdown timed out")
	}

	shutdownCtx, shutdownDone := context.WithTimeout(context.Background(), time.Second*10)
	if err := gCtx.Inst().Storage.Close(shutdownCtx); err != nil {
		logrus.Errorf("storage shutdown, err=%v", err)
	}
	if gCtx.Inst().Redis != nil {
		if err := gCtx.Inst().Redis.Close(); err != nil {
			logrus.Errorf("redis shutdown, err=%v", err)
		}
	}
	shutdownDone()

	logrus.Infof("shutdown took %s", time.Since(start))
}
