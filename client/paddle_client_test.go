package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaddleClientRecognize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Images []string `json:"images"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Images, 1)

		_, _ = w.Write([]byte(`{"status":"000","msg":"","results":[[
			{"text":"Due Date","confidence":0.98,"text_region":[[100,50],[180,50],[180,62],[100,62]]},
			{"text":"15/10/2024","confidence":0.97,"text_region":[[100,80],[200,80],[200,92],[100,92]]}
		]]}`))
	}))
	defer srv.Close()

	p := NewPaddleClient(srv.URL, time.Second, nil)
	res, err := p.Recognize(context.Background(), []byte("png"))
	require.NoError(t, err)

	assert.Equal(t, "Due Date\n15/10/2024\n", res.Text)
	require.Len(t, res.Words, 3)
	assert.Equal(t, "Due", res.Words[0].Text)
	assert.Equal(t, 100.0, res.Words[0].X0)
	assert.Equal(t, 130.0, res.Words[0].X1)
	assert.Equal(t, "Date", res.Words[1].Text)
	assert.Equal(t, 62.0, res.Words[1].Y1)
	assert.Equal(t, "15/10/2024", res.Words[2].Text)
	assert.Equal(t, 80.0, res.Words[2].Y0)
}

func TestPaddleClientEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[[]]}`))
	}))
	defer srv.Close()

	_, err := NewPaddleClient(srv.URL, time.Second, nil).Recognize(context.Background(), []byte("png"))
	assert.Error(t, err)
}

func TestPaddleClientBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewPaddleClient(srv.URL, time.Second, nil)
	for i := 0; i < 3; i++ {
		_, err := p.Recognize(context.Background(), []byte("png"))
		assert.Error(t, err)
	}

	_, err := p.Recognize(context.Background(), []byte("png"))
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSplitLine(t *testing.T) {
	words := splitLine("Total  Due", [][]float64{{0, 0}, {100, 0}, {100, 10}, {0, 10}})
	require.Len(t, words, 2)
	assert.Equal(t, "Total", words[0].Text)
	assert.Equal(t, 0.0, words[0].X0)
	assert.Equal(t, 50.0, words[0].X1)
	assert.Equal(t, "Due", words[1].Text)
	assert.Equal(t, 70.0, words[1].X0)

	assert.Nil(t, splitLine("x", nil))
}
