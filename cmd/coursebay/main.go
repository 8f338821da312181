package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/coursebay/coursebay/internal/clock"
	"github.com/coursebay/coursebay/internal/config"
	"github.com/coursebay/coursebay/internal/migration"
	"github.com/coursebay/coursebay/internal/server"
	"github.com/coursebay/coursebay/pkg/db"
	"github.com/coursebay/coursebay/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
