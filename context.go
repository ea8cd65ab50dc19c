package sharedlog

import "context"

type ctxKey struct{}

// ContextWithFields returns a copy of ctx carrying fields on top of any already stored.
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	return context.WithValue(ctx, ctxKey{}, merge(FieldsFromContext(ctx), fields))
}

// FieldsFromContext returns the fields stored by ContextWithFields, or nil.
func FieldsFromContext(ctx context.Context) Fields {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(ctxKey{}).(Fields)
	return f
}

// Ctx returns a logger that adds the fields carried by ctx to every record.
func (l *Logger) Ctx(ctx context.Context) *Logger {
	f := FieldsFromContext(ctx)
	if len(f) == 0 {
		return l
	}
	return l.With(f)
}
