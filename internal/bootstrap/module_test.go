package bootstrap

import (
	"context"
	"testing"

	"go.uber.org/fx"
)

func TestModuleGraphIsComplete(t *testing.T) {
	err := fx.ValidateApp(
		Module,
		fx.Provide(func() context.Context { return context.Background() }),
		fx.Provide(
			fx.Annotate(
				func() string { return "" },
				fx.ResultTags(`name:"configFile"`),
			),
		),
		fx.Invoke(func(*App, *Services) {}),
	)
	if err != nil {
		t.Fatalf("fx.ValidateApp() error = %v", err)
	}
}
