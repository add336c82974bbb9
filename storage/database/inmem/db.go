package inmemdb

import (
	"sync"

	"github.com/hometuition/portal/core/tuition"
	"github.com/hometuition/portal/core/user"
)

type (
	userTable struct {
		mutex sync.RWMutex
		pk    int
		table map[int]*user.User
	}

	tuitionTables struct {
		mutex     sync.RWMutex
		inqPK     int
		inquiries []tuition.Inquiry
		profPK    int
		profiles  []tuition.TeacherProfile
	}

	// DB is an in-memory database, used in tests and when DATABASE_ENGINE=memory.
	DB struct {
		user    *userTable
		tuition *tuitionTables
	}
)

func NewDB() *DB {
	return &DB{
		user:    &userTable{table: make(map[int]*user.User)},
		tuition: &tuitionTables{},
	}
}
