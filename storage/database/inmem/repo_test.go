package inmemdb

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/qa"
	"github.com/trezcool/studyhub/core/user"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(Open())

	alice, err := repo.CreateUser(ctx, user.User{ID: "u1", Username: "alice", LMSToken: "T1"})
	require.NoError(t, err)

	_, err = repo.CreateUser(ctx, user.User{ID: "u2", Username: "alice"})
	assert.ErrorIs(t, err, user.ErrUsernameExists)

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = repo.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = repo.GetUserByID(ctx, "u2")
	assert.ErrorIs(t, err, user.ErrNotFound)
	_, err = repo.GetUserByUsername(ctx, "")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUserRepository_ConcurrentRegistration(t *testing.T) {
	repo := NewUserRepository(Open())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.CreateUser(context.Background(), user.User{ID: string(rune('a' + i)), Username: "bob"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, created)
}

func TestQuestionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewQuestionRepository(Open())
	day := qa.Day(time.Now())

	for _, id := range []string{"q1", "q2"} {
		_, err := repo.CreateQuestion(ctx, qa.Question{ID: id, AuthorID: "u1", Text: "text " + id, CreatedDate: day})
		require.NoError(t, err)
	}

	require.NoError(t, repo.AppendAnswer(ctx, "q1", qa.Answer{AuthorID: "u2", Text: "A1", CreatedDate: day}))
	require.NoError(t, repo.AppendAnswer(ctx, "q1", qa.Answer{AuthorID: "u3", Text: "A2", CreatedDate: day}))
	assert.ErrorIs(t, repo.AppendAnswer(ctx, "nope", qa.Answer{Text: "A3"}), qa.ErrNotFound)

	questions, err := repo.QueryAllQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, "q2", questions[1].ID)
	require.Len(t, questions[0].Answers, 2)
	assert.Equal(t, "A1", questions[0].Answers[0].Text)
	assert.Equal(t, "A2", questions[0].Answers[1].Text)
	assert.Empty(t, questions[1].Answers)

	// returned questions are copies
	questions[0].Answers[0].Text = "changed"
	again, err := repo.QueryAllQuestions(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A1", again[0].Answers[0].Text)
}

func TestDeadlineRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDeadlineRepository(Open())
	now := time.Now().UTC()

	d := deadline.Deadline{ID: "d1", UserID: "u1", CourseID: 5, CourseName: "CS101", AssignmentName: "HW1", DueDate: now}
	_, err := repo.CreateDeadline(ctx, d)
	require.NoError(t, err)

	exists, err := repo.DeadlineExists(ctx, d.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	for _, key := range []deadline.Key{
		{UserID: "u2", CourseID: 5, AssignmentName: "HW1"},
		{UserID: "u1", CourseID: 6, AssignmentName: "HW1"},
		{UserID: "u1", CourseID: 5, AssignmentName: "HW1 "},
	} {
		exists, err = repo.DeadlineExists(ctx, key)
		require.NoError(t, err)
		assert.False(t, exists, key)
	}

	upcoming, err := repo.QueryUpcomingDeadlines(ctx, "u1", now)
	require.NoError(t, err)
	assert.Equal(t, []deadline.Deadline{d}, upcoming)

	upcoming, err = repo.QueryUpcomingDeadlines(ctx, "u1", now.Add(time.Second))
	require.NoError(t, err)
	assert.Empty(t, upcoming)
}
