package operations

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zeeeepa/airweave/pkg/search"
)

func TestCompletionGeneratesAnswer(t *testing.T) {
	chat := &fakeChat{response: "The billing failed because the card expired."}
	op := NewCompletion(chat, 5)
	st := &search.State{
		Query:        "why did billing fail?",
		FinalResults: rawResults("a", "b"),
	}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, "The billing failed because the card expired.", st.Completion)
	assert.Contains(t, chat.lastReq.User, "why did billing fail?")
	assert.Contains(t, chat.lastReq.User, "[1] a")
}

func TestCompletionFallsBackToRawResults(t *testing.T) {
	chat := &fakeChat{response: "answer"}
	op := NewCompletion(chat, 5)
	st := &search.State{Query: "q", RawResults: rawResults("a")}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Equal(t, "answer", st.Completion)
}

func TestCompletionCapsContextDocs(t *testing.T) {
	chat := &fakeChat{response: "answer"}
	op := NewCompletion(chat, 2)
	st := &search.State{Query: "q", FinalResults: rawResults("a", "b", "c")}

	require.NoError(t, op.Execute(context.Background(), st))
	assert.Contains(t, chat.lastReq.User, "[2] b")
	assert.NotContains(t, chat.lastReq.User, "[3] c")
}

func TestCompletionSkipsWithoutResults(t *testing.T) {
	chat := &fakeChat{response: "answer"}
	st := &search.State{Query: "q"}

	require.NoError(t, NewCompletion(chat, 5).Execute(context.Background(), st))
	assert.Empty(t, st.Completion)
	assert.Zero(t, chat.calls)
}

func TestCompletionFailurePropagates(t *testing.T) {
	op := NewCompletion(&fakeChat{err: errors.New("quota exceeded")}, 5)
	st := &search.State{Query: "q", FinalResults: rawResults("a")}

	err := op.Execute(context.Background(), st)
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Empty(t, st.Completion)
}
