// Package social is the community layer: accounts, posts with rendered
// markdown bodies, comments and likes.
package social

import (
	"github.com/kickoffhub/kickoffhub/internal/module"
	"github.com/kickoffhub/kickoffhub/internal/repository"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

func init() {
	module.Register("social", Register)
}

// Register wires the module against the shared context.
func Register(ctx *module.Context) (*module.Manifest, error) {
	db := ctx.DB.DB

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)

	h := &handlers{
		auth:   service.NewAuthService(users, ctx.JWT),
		posts:  service.NewPostService(posts, comments),
		logger: ctx.Logger,
	}

	return &module.Manifest{
		Name:          "social",
		BasePath:      "/social",
		PublicRoutes:  h.mountPublic,
		PrivateRoutes: h.mountPrivate,
	}, nil
}
