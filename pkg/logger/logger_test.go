package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/optica-suite/pkg/logger"
)

func TestNew_EstampaElServicioEnCadaLinea(t *testing.T) {
	l := logger.New(logger.Config{Service: "optica-suite", Env: "production", Level: "info"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Str("ruta", "/api/sales").Msg("petición atendida")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "optica-suite", line["service"])
	assert.Equal(t, "petición atendida", line["message"])
	assert.Equal(t, "/api/sales", line["ruta"])
}

func TestNew_SinServicioNoAgregaElCampo(t *testing.T) {
	l := logger.New(logger.Config{Env: "production"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("hola")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	_, hasService := line["service"]
	assert.False(t, hasService)
}

func TestNew_RespetaElNivelConfigurado(t *testing.T) {
	l := logger.New(logger.Config{Service: "optica-suite", Env: "production", Level: "warn"})

	var buf bytes.Buffer
	zl := l.Zerolog().Output(&buf)
	zl.Info().Msg("no debería salir")
	assert.Empty(t, buf.String())

	zl.Warn().Msg("sí sale")
	assert.Contains(t, buf.String(), "sí sale")
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{" error ", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, logger.ParseLevel(c.in), "nivel %q", c.in)
	}
}
