// Package test holds reusable cases to verify a Store implementation against
// the persistence collaborator contract. Backends register their store with
// TestStore and reference StoreCases in their own suite.
package test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/earlycare/authz/types"
)

var s types.Store

// TestStore registers the store implementation under test
func TestStore(store types.Store) {
	s = store
}

// StoreCases verifies the Resolver and Persister contracts
var StoreCases = Describe("store", func() {
	ctx := context.Background()

	It("reports missing entities as not found", func() {
		_, e := s.FindSubject(ctx, "no-such-subject")
		Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())

		_, e = s.FindRecord(ctx, types.Assessment, "no-such-record")
		Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())
	})

	It("stores and resolves subjects", func() {
		subj, e := s.InsertSubject(ctx, types.Subject{
			ID:         "conformance-s1",
			GuardianID: "parent-1",
			Staff:      types.NewStaffSet("teacher-1"),
		})
		Expect(e).To(Succeed())
		Expect(subj.ID).To(Equal("conformance-s1"))

		got, e := s.FindSubject(ctx, "conformance-s1")
		Expect(e).To(Succeed())
		Expect(got.GuardianID).To(Equal("parent-1"))
		Expect(got.Staff.Has("teacher-1")).To(BeTrue())

		_, e = s.InsertSubject(ctx, types.Subject{ID: "conformance-s1"})
		Expect(e).NotTo(Succeed())
	})

	It("mints an id when none is given", func() {
		subj, e := s.InsertSubject(ctx, types.Subject{GuardianID: "parent-2"})
		Expect(e).To(Succeed())
		Expect(subj.ID).NotTo(BeEmpty())

		Expect(s.DeleteSubject(ctx, subj.ID)).To(Succeed())
	})

	It("replaces the staff set", func() {
		Expect(s.SetStaff(ctx, "conformance-s1", types.NewStaffSet("teacher-2", "teacher-3"))).To(Succeed())

		got, e := s.FindSubject(ctx, "conformance-s1")
		Expect(e).To(Succeed())
		Expect(got.Staff.Has("teacher-1")).To(BeFalse())
		Expect(got.Staff.Has("teacher-2")).To(BeTrue())
		Expect(got.Staff.Has("teacher-3")).To(BeTrue())
	})

	It("stores and lists records per kind", func() {
		for _, kind := range []types.RecordKind{types.Assessment, types.SupportPlan, types.ProgressReport} {
			rec, e := s.InsertRecord(ctx, types.Record{
				ID:        "conformance-r1",
				Kind:      kind,
				SubjectID: "conformance-s1",
				CreatorID: "teacher-2",
			})
			Expect(e).To(Succeed())
			Expect(rec.Kind).To(Equal(kind))
		}

		recs, e := s.AllRecords(ctx, types.SupportPlan)
		Expect(e).To(Succeed())
		Expect(recs).To(ContainElement(types.Record{
			ID:        "conformance-r1",
			Kind:      types.SupportPlan,
			SubjectID: "conformance-s1",
			CreatorID: "teacher-2",
		}))
	})

	It("updates records in place", func() {
		Expect(s.UpdateRecord(ctx, types.Record{
			ID:        "conformance-r1",
			Kind:      types.Assessment,
			SubjectID: "conformance-s1",
			CreatorID: "teacher-2",
		})).To(Succeed())

		e := s.UpdateRecord(ctx, types.Record{ID: "no-such-record", Kind: types.Assessment})
		Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())
	})

	It("deletes records and subjects", func() {
		Expect(s.DeleteRecord(ctx, types.Assessment, "conformance-r1")).To(Succeed())
		_, e := s.FindRecord(ctx, types.Assessment, "conformance-r1")
		Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())

		Expect(s.DeleteSubject(ctx, "conformance-s1")).To(Succeed())
		_, e = s.FindSubject(ctx, "conformance-s1")
		Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())
	})
})
