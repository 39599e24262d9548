// Package fetcher downloads feed documents
package fetcher

import "go.uber.org/fx"

// Module provides the feed fetcher for fx DI
var Module = fx.Module("fetcher",
	fx.Provide(NewClient),
)
