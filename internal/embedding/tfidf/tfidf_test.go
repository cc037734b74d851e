package tfidf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrepareRequiresCorpus(t *testing.T) {
	e := New()
	require.Error(t, e.Prepare(nil))
	require.Error(t, e.Prepare([]string{"the and of"})) // only stopwords
}

func TestEmbedRequiresPrepare(t *testing.T) {
	e := New()
	_, err := e.Embed("hello")
	require.Error(t, err)
}

func TestEmbedVectorsAreNormalized(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare([]string{
		"security deposit refund policy",
		"refund within thirty days",
		"lease termination notice",
	}))
	require.Greater(t, e.Dimension(), 0)

	vec, err := e.Embed("refund policy")
	require.NoError(t, err)
	require.Len(t, vec, e.Dimension())

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-9)
}

func TestEmbedIsDeterministic(t *testing.T) {
	corpus := []string{"alpha beta gamma", "beta gamma delta", "gamma delta epsilon"}
	a, b := New(), New()
	require.NoError(t, a.Prepare(corpus))
	require.NoError(t, b.Prepare(corpus))
	require.Equal(t, a.Dimension(), b.Dimension())

	va, err := a.Embed("beta delta")
	require.NoError(t, err)
	vb, err := b.Embed("beta delta")
	require.NoError(t, err)
	require.Equal(t, va, vb)
}

func TestSimilarTextScoresHigher(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare([]string{
		"tenants must return keys upon moving out",
		"landlords refund the security deposit within thirty days",
		"pets are allowed with prior written approval",
	}))

	query, err := e.Embed("when is the security deposit refunded")
	require.NoError(t, err)
	deposit, err := e.Embed("landlords refund the security deposit within thirty days")
	require.NoError(t, err)
	pets, err := e.Embed("pets are allowed with prior written approval")
	require.NoError(t, err)

	require.Greater(t, dot(query, deposit), dot(query, pets))
}

func TestEmbedUnknownTokensYieldZeroVector(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare([]string{"apples oranges"}))
	vec, err := e.Embed("zebra quark")
	require.NoError(t, err)
	for _, v := range vec {
		require.Zero(t, v)
	}
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
