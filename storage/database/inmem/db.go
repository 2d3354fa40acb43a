package inmemdb

import (
	"sync"

	"github.com/trezcool/studyhub/core/deadline"
	"github.com/trezcool/studyhub/core/qa"
	"github.com/trezcool/studyhub/core/user"
)

type (
	// DB keeps every table in memory. Each table serializes its own operations;
	// nothing spans several operations.
	DB struct {
		user     *userTable
		question *questionTable
		deadline *deadlineTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	questionTable struct {
		sync.RWMutex
		rows []*qa.Question // insertion order
	}

	deadlineTable struct {
		sync.RWMutex
		rows []deadline.Deadline // insertion order
	}
)

func Open() *DB {
	return &DB{
		user:     &userTable{table: make(map[string]*user.User)},
		question: &questionTable{},
		deadline: &deadlineTable{},
	}
}
