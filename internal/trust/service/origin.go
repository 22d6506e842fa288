package service

import "context"

// Origin identifies where a request came from. HTTP middleware attaches it
// so audit records pick it up without every call site passing it along.
type Origin struct {
	IP        string
	UserAgent string
}

type originKey struct{}

func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

func OriginFromContext(ctx context.Context) Origin {
	o, _ := ctx.Value(originKey{}).(Origin)
	return o
}
