package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/botdetector/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.Detector.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Detector.Timeout)
	assert.True(t, cfg.Reporting.Anonymous)
	assert.False(t, cfg.Upload.OnlyAtLogout)
	assert.Equal(t, 5, cfg.Upload.AutoSendMinutes)
	assert.Equal(t, 5*time.Minute, cfg.Upload.AutoSendInterval())
	assert.Equal(t, FontNormal, cfg.Panel.FontType)
	assert.Equal(t, "default", cfg.Panel.Palette)
	assert.NotContains(t, cfg.Storage.Path, "~")
}

func TestLoad_FromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
detector:
  base_url: http://localhost:8080/api/
  auth_token: secret
  timeout: 5s
player:
  name: Zezima
reporting:
  anonymous: false
upload:
  auto_send_minutes: 2
  only_at_logout: true
panel:
  font_type: LARGE
  palette: catppuccin
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	v := newViper(t)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.Detector.BaseURL)
	assert.Equal(t, "secret", cfg.Detector.AuthToken)
	assert.Equal(t, 5*time.Second, cfg.Detector.Timeout)
	assert.Equal(t, "Zezima", cfg.Player.Name)
	assert.False(t, cfg.Reporting.Anonymous)
	assert.True(t, cfg.Upload.OnlyAtLogout)
	assert.Equal(t, AutoSendMinimumMinutes, cfg.Upload.AutoSendMinutes, "interval is clamped to the minimum")
	assert.Equal(t, FontLarge, cfg.Panel.FontType)
	assert.Equal(t, "catppuccin", cfg.Panel.Palette)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		set     func(v *viper.Viper)
		wantErr error
		name    string
	}{
		{name: "empty base url", set: func(v *viper.Viper) { v.Set("detector.base_url", "") }, wantErr: common.ErrMissingConfig},
		{name: "non-http base url", set: func(v *viper.Viper) { v.Set("detector.base_url", "ftp://example.com") }, wantErr: common.ErrInvalidConfig},
		{name: "zero timeout", set: func(v *viper.Viper) { v.Set("detector.timeout", 0) }, wantErr: common.ErrInvalidConfig},
		{name: "bad font type", set: func(v *viper.Viper) { v.Set("panel.font_type", "huge") }, wantErr: common.ErrInvalidConfig},
		{name: "bad batch size", set: func(v *viper.Viper) { v.Set("upload.batch_size", 0) }, wantErr: common.ErrInvalidConfig},
		{name: "bad log level", set: func(v *viper.Viper) { v.Set("logging.level", "loud") }, wantErr: common.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			tt.set(v)
			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("BOTDETECTOR_TEST_DIR", "/var/data")

	assert.Empty(t, ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "history.db"), ExpandPath("~/history.db"))
	assert.Equal(t, "/var/data/history.db", ExpandPath("$BOTDETECTOR_TEST_DIR/history.db"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
}
