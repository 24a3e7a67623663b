// Package imports exposes the background import surface: enqueueing
// teams-import jobs, with a synchronous fallback for operators who run
// without Redis. It consumes the football module's import service through
// the container, so it must register after the football module.
package imports

import (
	"github.com/kickoffhub/kickoffhub/internal/module"
	"github.com/kickoffhub/kickoffhub/internal/queue"
	"github.com/kickoffhub/kickoffhub/internal/service"

	// The football module must register first so its public API is in the
	// container by the time this module loads.
	_ "github.com/kickoffhub/kickoffhub/internal/modules/football"
)

func init() {
	module.Register("imports", Register)
}

// Register wires the module against the shared context.
func Register(ctx *module.Context) (*module.Manifest, error) {
	var q *queue.Queue
	if v, ok := ctx.Container.Get(module.KeyQueue); ok {
		q, _ = v.(*queue.Queue)
	}
	if q == nil {
		// Producer with no transport: enqueues return nil handles.
		q = queue.NewQueue(nil, ctx.Logger)
	}

	var importSvc *service.ImportService
	if v, ok := ctx.Container.Get(module.PublicAPIKey("football")); ok {
		if papi, ok := v.(map[string]any); ok {
			importSvc, _ = papi["importService"].(*service.ImportService)
		}
	}

	h := &handlers{
		queue:   q,
		imports: importSvc,
		logger:  ctx.Logger,
	}

	return &module.Manifest{
		Name:          "imports",
		BasePath:      "/imports",
		PrivateRoutes: h.mount,
	}, nil
}
