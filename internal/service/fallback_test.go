package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldFallbackTriggerPhrases(t *testing.T) {
	answers := []string{
		"That information is not in the document you provided, unfortunately for us.",
		"The provided context does not contain anything about notice periods at all.",
		"There is no relevant information in the supplied context about this topic.",
		"I don't have enough information to answer that based on the provided documents.",
		"Unfortunately I cannot answer that question given the context supplied here.",
		"I do not have the required data to respond to this particular question.",
	}
	for _, a := range answers {
		require.True(t, ShouldFallback(a, 30), "expected fallback for %q", a)
	}
}

func TestShouldFallbackCaseInsensitive(t *testing.T) {
	require.True(t, ShouldFallback("The document DOES NOT CONTAIN any mention of subletting rules anywhere.", 30))
}

func TestShouldFallbackShortAnswer(t *testing.T) {
	require.True(t, ShouldFallback("Yes.", 30))
	require.True(t, ShouldFallback("   \n  ", 30))
}

func TestShouldFallbackAcceptsGroundedAnswer(t *testing.T) {
	answer := "Landlords must refund the security deposit within 30 days of move-out."
	require.False(t, ShouldFallback(answer, 30))
}

func TestShouldFallbackDefaultThreshold(t *testing.T) {
	// Non-positive thresholds fall back to 30.
	require.True(t, ShouldFallback("Too short.", 0))
	require.False(t, ShouldFallback("This answer is comfortably longer than thirty characters in total.", -1))
}
