package config

import "go.uber.org/fx"

// Module registers *Config as an fx provider. path may be empty.
func Module(path string) fx.Option {
	return fx.Module("config",
		fx.Supply(Path(path)),
		fx.Provide(
			NewConfig,
		),
	)
}
