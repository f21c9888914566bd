package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dicedefense/dice/internal/log"
)

func TestCtxWithValues(t *testing.T) {
	tests := map[string]struct {
		ctx       func() context.Context
		kv        log.Kv
		expValues log.Kv
	}{
		"Empty context should store the values.": {
			ctx:       context.Background,
			kv:        log.Kv{"run": "01J"},
			expValues: log.Kv{"run": "01J"},
		},
		"Existing values should be merged and overwritten.": {
			ctx: func() context.Context {
				return log.CtxWithValues(context.Background(), log.Kv{"run": "01J", "kind": "backup"})
			},
			kv:        log.Kv{"kind": "training"},
			expValues: log.Kv{"run": "01J", "kind": "training"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := log.CtxWithValues(test.ctx(), test.kv)
			assert.Equal(t, test.expValues, log.ValuesFromCtx(ctx))
		})
	}
}

func TestValuesFromCtxMissing(t *testing.T) {
	assert.Equal(t, log.Kv{}, log.ValuesFromCtx(context.Background()))
}

func TestNoopKeepsContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, log.Noop.SetValuesOnCtx(ctx, log.Kv{"a": 1}))
	assert.Equal(t, log.Noop, log.Noop.WithValues(log.Kv{"a": 1}))
}
