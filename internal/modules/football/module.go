// Package football is the reference-data module: countries, leagues,
// seasons, teams, players, coaches, transfers and fixtures, fed by the
// football-data provider. It publishes its import service through the
// container so the imports module can reuse it.
package football

import (
	"context"

	"github.com/kickoffhub/kickoffhub/internal/footballdata"
	"github.com/kickoffhub/kickoffhub/internal/module"
	"github.com/kickoffhub/kickoffhub/internal/repository"
	"github.com/kickoffhub/kickoffhub/internal/service"
)

func init() {
	module.Register("football", Register)
}

// Register wires the module against the shared context.
func Register(ctx *module.Context) (*module.Manifest, error) {
	db := ctx.DB.DB

	countries := repository.NewCountryRepository(db)
	leagues := repository.NewLeagueRepository(db)
	teams := repository.NewTeamRepository(db)
	players := repository.NewPlayerRepository(db)
	coaches := repository.NewCoachRepository(db)
	transfers := repository.NewTransferRepository(db)
	fixtures := repository.NewFixtureRepository(ctx.DB)

	provider := footballdata.NewClient(ctx.Config.Football)
	importSvc := service.NewImportService(provider, teams, leagues, countries, ctx.Cache, ctx.Logger)
	exportSvc := service.NewExportService(players, teams)

	h := &handlers{
		countries: countries,
		leagues:   leagues,
		teams:     teams,
		players:   players,
		coaches:   coaches,
		transfers: transfers,
		fixtures:  fixtures,
		exports:   exportSvc,
		cache:     ctx.Cache,
		logger:    ctx.Logger,
	}

	return &module.Manifest{
		Name:          "football",
		BasePath:      "/football",
		PublicRoutes:  h.mountPublic,
		PrivateRoutes: h.mountPrivate,
		PublicAPI: map[string]any{
			"importService": importSvc,
			"provider":      provider,
		},
		Tasks: []module.Task{
			{
				// Country list barely changes; one refresh a night keeps
				// flags and new federations current.
				Name:     "countries-refresh",
				Schedule: "0 4 * * *",
				Run: func(taskCtx context.Context) error {
					_, err := importSvc.ImportCountries(taskCtx)
					return err
				},
			},
		},
	}, nil
}
