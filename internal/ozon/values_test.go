package ozon_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/ozon-seller-client/internal/metrics"
	"github.com/donaldgifford/ozon-seller-client/internal/ozon"
	"github.com/donaldgifford/ozon-seller-client/internal/ozon/mocks"
)

func TestClient_AttributeValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		opts       []ozon.ValuesOption
		setupMocks func(*testing.T, *mocks.MockExecutor)
		wantIDs    []int64
		wantErr    error
		errContain string
	}{
		{
			name: "follows cursor across three pages",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1,"value":"a"}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 1)).
					Return(raw(`{"result":[{"id":2,"value":"b"}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 2)).
					Return(raw(`{"result":[{"id":3,"value":"c"}],"has_next":false}`), nil).Once()
			},
			wantIDs: []int64{1, 2, 3},
		},
		{
			name: "single empty page",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[],"has_next":false}`), nil).Once()
			},
			wantIDs: []int64{},
		},
		{
			name: "missing has_next ends the fetch",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":7}]}`), nil).Once()
			},
			wantIDs: []int64{7},
		},
		{
			name: "missing result with has_next false",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"has_next":false}`), nil).Once()
			},
			wantIDs: []int64{},
		},
		{
			name: "empty page with has_next gives up after stall limit",
			opts: []ozon.ValuesOption{ozon.WithStallLimit(2)},
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":4}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 4)).
					Return(raw(`{"result":[],"has_next":true}`), nil).Times(2)
			},
			wantIDs: []int64{4},
			wantErr: ozon.ErrPaginationExhausted,
		},
		{
			name: "repeated page is not collected twice",
			opts: []ozon.ValuesOption{ozon.WithStallLimit(3)},
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":5}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 5)).
					Return(raw(`{"result":[{"id":5}],"has_next":true}`), nil).Times(3)
			},
			wantIDs: []int64{5},
			wantErr: ozon.ErrPaginationExhausted,
		},
		{
			name: "repeated last page ends the fetch without duplicates",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1},{"id":2}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 2)).
					Return(raw(`{"result":[{"id":2}],"has_next":false}`), nil).Once()
			},
			wantIDs: []int64{1, 2},
		},
		{
			name: "stall recovers when cursor advances",
			opts: []ozon.ValuesOption{ozon.WithStallLimit(2)},
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":9}],"has_next":false}`), nil).Once()
			},
			wantIDs: []int64{9},
		},
		{
			name: "page cap",
			opts: []ozon.ValuesOption{ozon.WithMaxPages(2)},
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 1)).
					Return(raw(`{"result":[{"id":2}],"has_next":true}`), nil).Once()
			},
			wantIDs:    []int64{1, 2},
			wantErr:    ozon.ErrPaginationExhausted,
			errContain: "more than 2 pages",
		},
		{
			name: "trailing element without id",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1},{"value":"no id"}],"has_next":true}`), nil).Once()
			},
			wantErr: ozon.ErrMalformedPage,
		},
		{
			name: "business error page",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 1)).
					Return(raw(`{"code":3,"message":"invalid category","details":[]}`), nil).Once()
			},
			wantIDs:    []int64{1},
			errContain: "invalid category",
		},
		{
			name: "transport error keeps collected values",
			setupMocks: func(t *testing.T, m *mocks.MockExecutor) {
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 0)).
					Return(raw(`{"result":[{"id":1}],"has_next":true}`), nil).Once()
				m.EXPECT().Execute(mock.Anything, valuesFor(t, 85, 1)).
					Return(nil, ozon.ErrTransport).Once()
			},
			wantIDs: []int64{1},
			wantErr: ozon.ErrTransport,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := mocks.NewMockExecutor(t)
			tt.setupMocks(t, m)

			c := ozon.NewClient(m)
			values, err := c.AttributeValues(
				context.Background(),
				ozon.RequestContext{DescriptionCategoryID: 17028922, TypeID: 91565},
				85,
				tt.opts...,
			)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.errContain != "":
				require.Error(t, err)
			default:
				require.NoError(t, err)
			}
			if tt.errContain != "" {
				assert.Contains(t, err.Error(), tt.errContain)
			}

			if tt.wantIDs == nil {
				return
			}
			ids := make([]int64, 0, len(values))
			for _, v := range values {
				id, err := v.ID()
				require.NoError(t, err)
				ids = append(ids, id)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestClient_AttributeValues_RequestBody(t *testing.T) {
	t.Parallel()

	m := mocks.NewMockExecutor(t)
	m.EXPECT().Execute(mock.Anything, mock.Anything).
		Run(func(_ context.Context, req ozon.Request) {
			assert.Equal(t, "POST", req.Method)
			assert.Equal(t, "v1", req.Version)
			assert.Equal(t, "description-category/attribute/values", req.Endpoint)
			assert.Equal(t, map[string]any{
				"attribute_id":            float64(85),
				"description_category_id": float64(17028922),
				"language":                "EN",
				"last_value_id":           float64(100),
				"limit":                   float64(50),
				"type_id":                 nil,
			}, bodyOf(t, req))
		}).
		Return(raw(`{"result":[],"has_next":false}`), nil).Once()

	c := ozon.NewClient(m)
	_, err := c.AttributeValues(
		context.Background(),
		ozon.RequestContext{DescriptionCategoryID: 17028922, Language: ozon.LanguageEN},
		85,
		ozon.WithPageSize(50),
		ozon.WithStartCursor(100),
	)
	require.NoError(t, err)
}

func TestClient_AttributeValues_ExhaustedMetric(t *testing.T) {
	// Not parallel: reads a global counter.
	before := testutil.ToFloat64(metrics.PaginationExhaustedTotal)

	m := mocks.NewMockExecutor(t)
	m.EXPECT().Execute(mock.Anything, mock.Anything).
		Return(raw(`{"result":[],"has_next":true}`), nil).Once()

	c := ozon.NewClient(m)
	_, err := c.AttributeValues(context.Background(), ozon.RequestContext{}, 1, ozon.WithStallLimit(1))
	require.ErrorIs(t, err, ozon.ErrPaginationExhausted)

	assert.InDelta(t, before+1, testutil.ToFloat64(metrics.PaginationExhaustedTotal), 0.001)
}

func TestAttributeValue_ID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   ozon.AttributeValue
		want    int64
		wantErr bool
	}{
		{name: "float", value: ozon.AttributeValue{"id": float64(42)}, want: 42},
		{name: "int64", value: ozon.AttributeValue{"id": int64(970000001)}, want: 970000001},
		{name: "fractional float", value: ozon.AttributeValue{"id": 1.5}, wantErr: true},
		{name: "missing", value: ozon.AttributeValue{"value": "x"}, wantErr: true},
		{name: "string", value: ozon.AttributeValue{"id": "42"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tt.value.ID()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_AttributeValues_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := mocks.NewMockExecutor(t)
	m.EXPECT().Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ ozon.Request) (json.RawMessage, error) {
			return nil, ctx.Err()
		}).Once()

	c := ozon.NewClient(m)
	_, err := c.AttributeValues(ctx, ozon.RequestContext{}, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
