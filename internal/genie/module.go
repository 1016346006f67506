package genie

import (
	"go.uber.org/fx"
)

// Module provides the Genie client dependencies
var Module = fx.Options(
	fx.Provide(
		NewClient,
		fx.Annotate(
			NewTokenAuthManager,
			fx.As(new(AuthManager)),
		),
	),
)
