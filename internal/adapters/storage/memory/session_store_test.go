package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kwhsu/riskprofiler/internal/domain"
)

func TestCreateAndGet(t *testing.T) {
	store := NewSessionStore(3)

	id, err := store.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	sess, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, id, sess.ID)
	assert.Equal(t, 0, sess.CurrentIndex)
	assert.Empty(t, sess.Questions)
	assert.Empty(t, sess.Answers)

	id2, err := store.Create()
	require.NoError(t, err)
	assert.NotEqual(t, id, id2)
}

func TestGet_UnknownSession(t *testing.T) {
	store := NewSessionStore(3)
	_, err := store.Get("nope")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSetQuestionAt_RoundTrip(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()

	const text = "市場大跌時您會？（恐慌 / 冷靜）"
	require.NoError(t, store.SetQuestionAt(id, 0, text))

	got, err := store.CurrentQuestion(id)
	require.NoError(t, err)
	assert.Equal(t, text, got, "stored question must round-trip unmodified")
}

func TestSetQuestionAt_GrowsWithPlaceholders(t *testing.T) {
	store := NewSessionStore(5)
	id, _ := store.Create()

	require.NoError(t, store.SetQuestionAt(id, 2, "第三題"))

	sess, err := store.Get(id)
	require.NoError(t, err)
	require.Len(t, sess.Questions, 3)
	assert.Equal(t, "", sess.Questions[0])
	assert.Equal(t, "", sess.Questions[1])
	assert.Equal(t, "第三題", sess.Questions[2])

	// Current index is 0 and that slot is a placeholder, so no answer yet.
	err = store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil)
	assert.ErrorIs(t, err, domain.ErrNoPendingQuestion)
}

func TestAppendAnswer_RejectedBeforeQuestionSet(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()

	err := store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil)
	assert.ErrorIs(t, err, domain.ErrNoPendingQuestion)

	// Rejection must not mutate state.
	sess, _ := store.Get(id)
	assert.Equal(t, 0, sess.CurrentIndex)
	assert.Empty(t, sess.Answers)
}

func TestAppendAnswer_AdvancesAndSnapshots(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()

	require.NoError(t, store.SetQuestionAt(id, 0, "原始問題"))
	require.NoError(t, store.AppendAnswer(id, "我的回答", domain.SentimentScore{Positive: 0.9}, map[string]float64{"stress": 0.1}))

	current, total, err := store.Progress(id)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
	assert.Equal(t, 3, total)

	// Overwriting the question slot later must not corrupt history.
	require.NoError(t, store.SetQuestionAt(id, 0, "改掉了"))

	sess, _ := store.Get(id)
	require.Len(t, sess.Answers, 1)
	assert.Equal(t, "原始問題", sess.Answers[0].Question)
	assert.Equal(t, "我的回答", sess.Answers[0].Answer)
	assert.Equal(t, 0.9, sess.Answers[0].Sentiment.Positive)
	assert.Equal(t, 0.1, sess.Answers[0].Secondary["stress"])
}

func TestGet_ReturnsSnapshotCopy(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()
	require.NoError(t, store.SetQuestionAt(id, 0, "問題"))

	sess, _ := store.Get(id)
	sess.Questions[0] = "篡改"
	sess.CurrentIndex = 99

	fresh, _ := store.Get(id)
	assert.Equal(t, "問題", fresh.Questions[0])
	assert.Equal(t, 0, fresh.CurrentIndex)
}

func TestIsComplete(t *testing.T) {
	store := NewSessionStore(3)

	assert.False(t, store.IsComplete("unknown"), "unknown session reads as not ready")

	id, _ := store.Create()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SetQuestionAt(id, i, "問題"))
		assert.False(t, store.IsComplete(id))
		require.NoError(t, store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil))
	}
	assert.True(t, store.IsComplete(id))
}

func TestProgress_MonotonicAndBounded(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()

	last := 0
	for i := 0; i < 3; i++ {
		require.NoError(t, store.SetQuestionAt(id, i, "問題"))
		require.NoError(t, store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil))

		current, total, err := store.Progress(id)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, current, last)
		assert.LessOrEqual(t, current, total)
		last = current
	}
}

func TestDelete(t *testing.T) {
	store := NewSessionStore(3)
	id, _ := store.Create()

	assert.True(t, store.Delete(id))
	assert.False(t, store.Delete(id))

	_, err := store.Get(id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAppendAnswer_ConcurrentSameSession(t *testing.T) {
	store := NewSessionStore(10)
	id, _ := store.Create()
	require.NoError(t, store.SetQuestionAt(id, 0, "問題"))

	// Only one of N concurrent appends can win the single stored question;
	// the rest must observe the advanced index with an empty next slot.
	const n = 8
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil)
		}()
	}
	wg.Wait()
	close(errs)

	var ok, rejected int
	for err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrNoPendingQuestion)
			rejected++
		}
	}
	assert.Equal(t, 1, ok, "exactly one append may advance the index")
	assert.Equal(t, n-1, rejected)

	current, _, _ := store.Progress(id)
	assert.Equal(t, 1, current)
}

func TestConcurrentDistinctSessions(t *testing.T) {
	store := NewSessionStore(3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.Create()
			if err != nil {
				t.Error(err)
				return
			}
			if err := store.SetQuestionAt(id, 0, "問題"); err != nil {
				t.Error(err)
				return
			}
			if err := store.AppendAnswer(id, "回答", domain.SentimentScore{}, nil); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
}
