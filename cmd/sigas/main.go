package main

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/opensigas/sigas/internal/config"
	"github.com/opensigas/sigas/internal/observability"
	"github.com/opensigas/sigas/internal/server"
	"github.com/opensigas/sigas/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
	)
	app.Run()
}

// RegisterSnowflake builds the process-wide id generator. The node number
// comes from SNOWFLAKE_NODE so replicas do not collide.
func RegisterSnowflake() (*snowflake.Node, error) {
	node := int64(1)
	if raw := os.Getenv("SNOWFLAKE_NODE"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, err
		}
		node = parsed
	}
	return snowflake.NewNode(node)
}
