package main

import (
	"context"
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"fruito-api/internal/app"
	"fruito-api/internal/transport/lambda"
)

func main() {
	ctx := context.Background()
	a, cleanup, err := app.Boot(ctx, os.Getenv("CONFIG_PATH"))
	if err != nil {
		zap.NewExample().Fatal("boot failed", zap.Error(err))
	}
	defer cleanup()

	// 冷启动时对齐一次管理员
	if err := a.Bootstrap(ctx); err != nil {
		a.Log.Fatal("bootstrap failed", zap.Error(err))
	}
	awslambda.Start(lambda.NewAdapter(a.APIEngine()).Handle)
}
