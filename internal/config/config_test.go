package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	SetDefaults()

	cfg := Load()
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 0.60, cfg.Catalog.Cutoff)
	assert.Equal(t, 0.15, cfg.Matcher.Offset)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, 1000, cfg.Storage.HistoryLimit)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	SetDefaults()
	viper.Set("server.addr", ":9090")
	viper.Set("poller.interval", "2m")
	viper.Set("graph.tenant_id", "tenant-1")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Poller.Interval)
	assert.Equal(t, "tenant-1", cfg.Graph.TenantID)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, home+"/data/catalog.csv", ExpandPath("~/data/catalog.csv"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "", ExpandPath(""))

	t.Setenv("ORDERFLOW_TEST_DIR", "/srv/orderflow")
	assert.Equal(t, "/srv/orderflow/catalog.csv", ExpandPath("$ORDERFLOW_TEST_DIR/catalog.csv"))
}
