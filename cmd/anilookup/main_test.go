// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/anilookup/pkg/types"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)

	want := types.DefaultConfig()
	assert.Equal(t, want.AniList, cfg.AniList)
	assert.Equal(t, want.Recommend, cfg.Recommend)
	assert.Equal(t, want.Paginate, cfg.Paginate)
	assert.Equal(t, want.Server, cfg.Server)
	assert.Empty(t, cfg.Log.Format)
}

func TestLoadConfigEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ANILOOKUP_ANILIST_MEDIA_TYPE", "manga")
	t.Setenv("ANILOOKUP_RECOMMEND_CONCURRENCY", "6")
	t.Setenv("ANILOOKUP_PAGINATE_IDLE_TIMEOUT", "90s")
	t.Setenv("ANILOOKUP_LOG_FORMAT", "json")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, types.KindManga, cfg.AniList.MediaType)
	assert.Equal(t, 6, cfg.Recommend.Concurrency)
	assert.Equal(t, 90*time.Second, cfg.Paginate.IdleTimeout)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigRejectsUnknownMediaType(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("ANILOOKUP_ANILIST_MEDIA_TYPE", "novel")
	initConfig()

	_, err := loadConfig()
	assert.ErrorContains(t, err, "ANIME or MANGA")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "anilookup dev\n", out.String())
}
