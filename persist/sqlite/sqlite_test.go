package sqlite

import (
	"database/sql"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	_ "modernc.org/sqlite"

	. "github.com/earlycare/authz/persist/test"
)

func TestSqliteStore(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "sqlite store")
}

var _ = BeforeSuite(func() {
	db, e := sql.Open("sqlite", "file::memory:?cache=shared")
	Expect(e).To(Succeed())

	s, e := NewStore(db)
	Expect(e).To(Succeed())
	TestStore(s)
})

var _ = StoreCases
