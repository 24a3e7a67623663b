package module

import (
	"bytes"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(logBuf *bytes.Buffer) *Context {
	var logger *log.Logger
	if logBuf != nil {
		logger = log.New(logBuf, "", 0)
	}
	return &Context{
		Logger:    logger,
		Container: NewContainer(),
	}
}

func TestLoad_EmptyRegistryReturnsEmptySlice(t *testing.T) {
	r := NewRegistry()
	manifests := r.Load(testContext(nil), nil)

	require.NotNil(t, manifests)
	assert.Empty(t, manifests)
}

func TestLoad_PartialManifestNormalized(t *testing.T) {
	r := NewRegistry()
	mounter := func(*gin.RouterGroup) {}
	r.Register("alpha", func(ctx *Context) (*Manifest, error) {
		return &Manifest{Routes: mounter}, nil
	})

	manifests := r.Load(testContext(nil), nil)
	require.Len(t, manifests, 1)

	m := manifests[0]
	assert.Equal(t, "alpha", m.Name, "name defaults to registration name")
	assert.Equal(t, "/", m.BasePath)
	assert.NotNil(t, m.Routes)
	assert.Nil(t, m.PublicRoutes)
	assert.Nil(t, m.PrivateRoutes)
	assert.NotNil(t, m.PublicAPI)
	assert.Empty(t, m.PublicAPI)
	assert.NotNil(t, m.Tasks)
	assert.Empty(t, m.Tasks)
}

func TestLoad_NilManifestTreatedAsEmpty(t *testing.T) {
	r := NewRegistry()
	r.Register("quiet", func(ctx *Context) (*Manifest, error) {
		return nil, nil
	})

	manifests := r.Load(testContext(nil), nil)
	require.Len(t, manifests, 1)
	assert.Equal(t, "quiet", manifests[0].Name)
	assert.Equal(t, "/", manifests[0].BasePath)
}

func TestLoad_FailingModuleIsSkippedOthersSurvive(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.Register("broken", func(ctx *Context) (*Manifest, error) {
		return nil, errors.New("boom")
	})
	r.Register("ok", func(ctx *Context) (*Manifest, error) {
		return &Manifest{Name: "ok"}, nil
	})

	manifests := r.Load(testContext(&buf), nil)

	require.Len(t, manifests, 1)
	assert.Equal(t, "ok", manifests[0].Name)

	logged := buf.String()
	assert.Contains(t, logged, "broken")
	assert.Contains(t, logged, "boom")
}

func TestLoad_PanickingModuleIsSkipped(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.Register("explosive", func(ctx *Context) (*Manifest, error) {
		panic("kaboom")
	})
	r.Register("ok", func(ctx *Context) (*Manifest, error) {
		return nil, nil
	})

	manifests := r.Load(testContext(&buf), nil)

	require.Len(t, manifests, 1)
	assert.Equal(t, "ok", manifests[0].Name)
	assert.Contains(t, buf.String(), "kaboom")
}

func TestLoad_SequentialContainerVisibility(t *testing.T) {
	// Module B must observe what module A registered: loading is
	// strictly sequential in registration order.
	r := NewRegistry()
	r.Register("a", func(ctx *Context) (*Manifest, error) {
		ctx.Container.Set("shared", "from-a")
		return nil, nil
	})

	var seen string
	r.Register("b", func(ctx *Context) (*Manifest, error) {
		if v, ok := ctx.Container.Get("shared"); ok {
			seen = v.(string)
		}
		return nil, nil
	})

	r.Load(testContext(nil), nil)
	assert.Equal(t, "from-a", seen)
}

func TestLoad_PublicAPIPublishedToContainer(t *testing.T) {
	r := NewRegistry()
	r.Register("stats", func(ctx *Context) (*Manifest, error) {
		return &Manifest{PublicAPI: map[string]any{"topScorers": 11}}, nil
	})

	ctx := testContext(nil)
	r.Load(ctx, nil)

	v, ok := ctx.Container.Get(PublicAPIKey("stats"))
	require.True(t, ok)
	api := v.(map[string]any)
	assert.Equal(t, 11, api["topScorers"])
}

func TestLoad_DisabledModuleSkippedSilently(t *testing.T) {
	var buf bytes.Buffer
	r := NewRegistry()
	r.Register("social", func(ctx *Context) (*Manifest, error) {
		return nil, nil
	})

	off := false
	settings := &Settings{Modules: map[string]ModuleSettings{
		"social": {Enabled: &off},
	}}

	manifests := r.Load(testContext(&buf), settings)
	assert.Empty(t, manifests)
	assert.Empty(t, buf.String(), "disabling is not an error condition")
}

func TestLoad_BasePathOverrideFromSettings(t *testing.T) {
	r := NewRegistry()
	r.Register("football", func(ctx *Context) (*Manifest, error) {
		return nil, nil
	})

	settings := &Settings{Modules: map[string]ModuleSettings{
		"football": {BasePath: "/footy"},
	}}

	manifests := r.Load(testContext(nil), settings)
	require.Len(t, manifests, 1)
	assert.Equal(t, "/footy", manifests[0].BasePath)
}

func TestRegister_DuplicateNamePanics(t *testing.T) {
	r := NewRegistry()
	r.Register("dup", func(ctx *Context) (*Manifest, error) { return nil, nil })

	assert.Panics(t, func() {
		r.Register("dup", func(ctx *Context) (*Manifest, error) { return nil, nil })
	})
}

func TestLoadSettings_MissingFileEnablesEverything(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.True(t, s.enabled("anything"))
}

func TestLoadSettings_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	content := []byte("modules:\n  social:\n    enabled: false\n  football:\n    base_path: /data\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.False(t, s.enabled("social"))
	assert.True(t, s.enabled("football"))
	assert.Equal(t, "/data", s.basePath("football"))
}

func TestContainerSemantics(t *testing.T) {
	c := NewContainer()

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.False(t, c.Has("missing"))

	c.Set("k", 1)
	c.Set("k", 2) // last write wins
	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.True(t, c.Has("k"))

	assert.Panics(t, func() { c.MustGet("missing") })
	assert.Equal(t, 2, c.MustGet("k"))
}

func TestNormalize_KeepsSuppliedFields(t *testing.T) {
	m := (&Manifest{
		Name:      "custom",
		BasePath:  "/x",
		PublicAPI: map[string]any{"a": 1},
		Tasks:     []Task{{Name: "t"}},
	}).Normalize("fallback")

	assert.Equal(t, "custom", m.Name)
	assert.Equal(t, "/x", m.BasePath)
	assert.Len(t, m.PublicAPI, 1)
	assert.Len(t, m.Tasks, 1)
}

// Loading must not log through the default logger when a context logger is
// present; keep test output clean by checking nothing was written.
func TestLoad_UsesContainerLoggerWhenRegistered(t *testing.T) {
	var ctxBuf, containerBuf bytes.Buffer
	ctx := testContext(&ctxBuf)
	ctx.Container.Set(KeyLogger, log.New(&containerBuf, "", 0))

	r := NewRegistry()
	r.Register("broken", func(ctx *Context) (*Manifest, error) {
		return nil, errors.New("boom")
	})
	r.Load(ctx, nil)

	assert.Empty(t, ctxBuf.String())
	assert.True(t, strings.Contains(containerBuf.String(), "boom"))
}
