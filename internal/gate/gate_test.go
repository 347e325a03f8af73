package gate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/earlycare/authz/internal/gate"
	"github.com/earlycare/authz/persist/fake"
	"github.com/earlycare/authz/types"
)

func TestGate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "enforcement gate")
}

var (
	admin    = types.User{ID: "admin-1", Role: types.Admin}
	teacher7 = types.User{ID: "teacher-7", Role: types.Teacher}
	teacher9 = types.User{ID: "teacher-9", Role: types.Teacher}
	parent42 = types.User{ID: "parent-42", Role: types.Parent}
)

var _ = Describe("enforcement gate", func() {
	ctx := context.Background()

	var store types.Store
	var g types.Gate

	BeforeEach(func() {
		store = fake.NewStore()
		g = gate.New(store, store, logr.Discard())

		_, e := store.InsertSubject(ctx, types.Subject{
			ID:         "s1",
			GuardianID: "parent-42",
			Staff:      types.NewStaffSet("teacher-7"),
		})
		Expect(e).To(Succeed())

		_, e = store.InsertRecord(ctx, types.Record{
			ID:        "a1",
			Kind:      types.Assessment,
			SubjectID: "s1",
			CreatorID: "teacher-7",
		})
		Expect(e).To(Succeed())
	})

	Context("resolution", func() {
		It("keeps not-found distinct from denial", func() {
			_, e := g.GetSubject(ctx, teacher9, "no-such-subject")
			Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())
			Expect(errors.Is(e, types.ErrDenied)).To(BeFalse())

			_, e = g.GetSubject(ctx, teacher9, "s1")
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())
			Expect(errors.Is(e, types.ErrNotFound)).To(BeFalse())
		})

		It("reports a dangling record reference as not found, not a deny", func() {
			_, e := store.InsertRecord(ctx, types.Record{
				ID:        "orphan",
				Kind:      types.Assessment,
				SubjectID: "gone",
				CreatorID: "teacher-7",
			})
			Expect(e).To(Succeed())

			_, e = g.GetRecord(ctx, admin, types.Assessment, "orphan")
			Expect(errors.Is(e, types.ErrNotFound)).To(BeTrue())
		})

		It("carries the failed rule on denials", func() {
			_, e := g.GetSubject(ctx, teacher9, "s1")

			var denied *types.DeniedError
			Expect(errors.As(e, &denied)).To(BeTrue())
			Expect(denied.Reason).To(Equal("not assigned to the subject"))
			Expect(denied.User).To(Equal("teacher-9"))
		})
	})

	Context("creating subjects", func() {
		It("forces guardianship to the creating parent", func() {
			subj, e := g.CreateSubject(ctx, parent42, types.Subject{GuardianID: "parent-66"})
			Expect(e).To(Succeed())
			Expect(subj.GuardianID).To(Equal("parent-42"))
		})

		It("keeps an admin-chosen guardian as given", func() {
			subj, e := g.CreateSubject(ctx, admin, types.Subject{GuardianID: "parent-66"})
			Expect(e).To(Succeed())
			Expect(subj.GuardianID).To(Equal("parent-66"))
		})

		It("rejects teachers before touching the store", func() {
			_, e := g.CreateSubject(ctx, teacher7, types.Subject{})
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())
		})
	})

	Context("updating subjects", func() {
		It("decides over the stored state, not the payload", func() {
			// the payload claims teacher-9 is assigned; the stored subject disagrees
			e := g.UpdateSubject(ctx, teacher9, types.Subject{
				ID:    "s1",
				Staff: types.NewStaffSet("teacher-9"),
			})
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())
		})

		It("keeps guardianship and staff unchanged through edits", func() {
			Expect(g.UpdateSubject(ctx, parent42, types.Subject{
				ID:         "s1",
				GuardianID: "parent-66",
				Staff:      types.NewStaffSet("teacher-9"),
			})).To(Succeed())

			subj, e := g.GetSubject(ctx, admin, "s1")
			Expect(e).To(Succeed())
			Expect(subj.GuardianID).To(Equal("parent-42"))
			Expect(subj.Staff.Has("teacher-7")).To(BeTrue())
			Expect(subj.Staff.Has("teacher-9")).To(BeFalse())
		})
	})

	Context("staff assignment", func() {
		It("is admin only", func() {
			Expect(errors.Is(g.AssignStaff(ctx, teacher7, "s1", "teacher-9"), types.ErrDenied)).To(BeTrue())
			Expect(errors.Is(g.AssignStaff(ctx, parent42, "s1", "teacher-9"), types.ErrDenied)).To(BeTrue())

			Expect(g.AssignStaff(ctx, admin, "s1", "teacher-9")).To(Succeed())

			subj, e := g.GetSubject(ctx, teacher9, "s1")
			Expect(e).To(Succeed())
			Expect(subj.Staff.Has("teacher-9")).To(BeTrue())
		})

		It("revokes access on unassignment", func() {
			Expect(g.UnassignStaff(ctx, admin, "s1", "teacher-7")).To(Succeed())

			_, e := g.GetSubject(ctx, teacher7, "s1")
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())

			// and with it, edit access to records the teacher authored
			e = g.UpdateRecord(ctx, teacher7, types.Record{ID: "a1", Kind: types.Assessment})
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())
		})

		It("requires a staff id", func() {
			Expect(errors.Is(g.AssignStaff(ctx, admin, "s1", ""), types.ErrMissingTarget)).To(BeTrue())
		})
	})

	Context("creating records", func() {
		It("requires a target subject", func() {
			_, e := g.CreateRecord(ctx, teacher7, types.Record{Kind: types.ProgressReport})
			Expect(errors.Is(e, types.ErrMissingTarget)).To(BeTrue())

			_, e = g.CanCreateRecord(ctx, teacher7, types.ProgressReport, "")
			Expect(errors.Is(e, types.ErrMissingTarget)).To(BeTrue())
		})

		It("forces authorship to the authenticated creator", func() {
			rec, e := g.CreateRecord(ctx, teacher7, types.Record{
				Kind:      types.SupportPlan,
				SubjectID: "s1",
				CreatorID: "teacher-9",
			})
			Expect(e).To(Succeed())
			Expect(rec.CreatorID).To(Equal("teacher-7"))
		})

		It("denies unassigned teachers", func() {
			_, e := g.CreateRecord(ctx, teacher9, types.Record{
				Kind:      types.Assessment,
				SubjectID: "s1",
			})
			Expect(errors.Is(e, types.ErrDenied)).To(BeTrue())
		})
	})

	Context("updating records", func() {
		It("keeps the subject reference and authorship write-once", func() {
			Expect(g.UpdateRecord(ctx, teacher7, types.Record{
				ID:        "a1",
				Kind:      types.Assessment,
				SubjectID: "elsewhere",
				CreatorID: "teacher-9",
			})).To(Succeed())

			rec, e := g.GetRecord(ctx, admin, types.Assessment, "a1")
			Expect(e).To(Succeed())
			Expect(rec.SubjectID).To(Equal("s1"))
			Expect(rec.CreatorID).To(Equal("teacher-7"))
		})
	})

	Context("deleting records", func() {
		It("is admin only", func() {
			Expect(errors.Is(g.DeleteRecord(ctx, teacher7, types.Assessment, "a1"), types.ErrDenied)).To(BeTrue())
			Expect(errors.Is(g.DeleteRecord(ctx, parent42, types.Assessment, "a1"), types.ErrDenied)).To(BeTrue())

			Expect(g.DeleteRecord(ctx, admin, types.Assessment, "a1")).To(Succeed())
		})
	})

	Context("list operations", func() {
		BeforeEach(func() {
			_, e := store.InsertSubject(ctx, types.Subject{ID: "s2", GuardianID: "parent-66"})
			Expect(e).To(Succeed())
			_, e = store.InsertRecord(ctx, types.Record{
				ID:        "a2",
				Kind:      types.Assessment,
				SubjectID: "s2",
				CreatorID: "teacher-9",
			})
			Expect(e).To(Succeed())
		})

		It("returns only the accessible subset", func() {
			subjects, e := g.AccessibleSubjects(ctx, parent42)
			Expect(e).To(Succeed())
			Expect(subjects).To(HaveLen(1))
			Expect(subjects[0].ID).To(Equal("s1"))

			recs, e := g.AccessibleRecords(ctx, teacher7, types.Assessment)
			Expect(e).To(Succeed())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].ID).To(Equal("a1"))
		})

		It("returns everything to admin", func() {
			subjects, e := g.AccessibleSubjects(ctx, admin)
			Expect(e).To(Succeed())
			Expect(subjects).To(HaveLen(2))
		})
	})

	Context("preset polices", func() {
		It("permit before the engine rules run", func() {
			elevated := gate.New(store, store, logr.Discard(), func(user types.User, _ types.Action) bool {
				return user.ID == "teacher-9"
			})

			subj, e := elevated.GetSubject(ctx, teacher9, "s1")
			Expect(e).To(Succeed())
			Expect(subj.ID).To(Equal("s1"))
		})
	})

	Context("without a persister", func() {
		It("still decides, but refuses to mutate", func() {
			readonly := gate.New(store, nil, logr.Discard())

			d, e := readonly.CanOnSubject(ctx, teacher7, "s1", types.View)
			Expect(e).To(Succeed())
			Expect(d.Allowed).To(BeTrue())

			_, e = readonly.CreateSubject(ctx, admin, types.Subject{})
			Expect(errors.Is(e, types.ErrNoPersister)).To(BeTrue())

			Expect(errors.Is(readonly.DeleteSubject(ctx, admin, "s1"), types.ErrNoPersister)).To(BeTrue())
		})
	})
})
