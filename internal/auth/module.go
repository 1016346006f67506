package auth

import (
	"go.uber.org/fx"
	"golang.org/x/oauth2"
)

// Module provides the authentication dependencies
var Module = fx.Module("auth",
	fx.Provide(
		fx.Annotate(
			NewAzureProvider,
			fx.As(new(Provider)),
		),
		NewFlow,
		func(f *Flow) oauth2.TokenSource { return f },
	),
)
