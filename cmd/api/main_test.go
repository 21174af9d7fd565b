package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/Mugiii7/CustomHA/internal/core/domain"
	"github.com/Mugiii7/CustomHA/internal/core/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/yaml.v3"
)

func TestWriteEntities(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	entities := store.NewDemo().List()

	var buf bytes.Buffer
	require.NoError(writeEntities(&buf, entities, "json"))
	var decoded []map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(decoded, 11)
	assert.Equal("binary_sensor.front_door", decoded[0]["entity_id"])

	buf.Reset()
	require.NoError(writeEntities(&buf, entities, "yaml"))
	var fromYaml []map[string]any
	require.NoError(yaml.Unmarshal(buf.Bytes(), &fromYaml))
	assert.Len(fromYaml, 11)
	assert.Contains(buf.String(), "entity_id: lock.front_door")

	assert.Error(writeEntities(&buf, entities, "xml"))
}

func TestRenderDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderDocument(&buf, store.NewDemo().List()))
	assert.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"))
	assert.Contains(t, buf.String(), "Living Room Thermostat")
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.HasPrefix(buf.String(), "demohome version "))
}

func TestStatesCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"states", "-o", "json"})
	require.NoError(t, rootCmd.Execute())
	var decoded []domain.Entity
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded, 11)
}

func TestGracefulShutdown(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	apiServer := &http.Server{Addr: ln.Addr().String(), Handler: http.NotFoundHandler()}
	served := make(chan error, 1)
	go func() { served <- apiServer.Serve(ln) }()

	core, logs := observer.New(zap.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go gracefulShutdown(ctx, apiServer, zap.New(core), done)
	cancel()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		t.Fatal("shutdown did not complete")
	}
	assert.ErrorIs(<-served, http.ErrServerClosed)
	entries := logs.FilterMessage("shutting down http server").All()
	require.Len(entries, 1)
	assert.Equal(ln.Addr().String(), entries[0].ContextMap()["addr"])
	assert.Zero(logs.FilterMessage("http server forced to shut down").Len())
}
