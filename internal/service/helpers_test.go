package service

import "context"

func ctxBG() context.Context {
	return context.Background()
}

func strPtr(s string) *string {
	return &s
}
