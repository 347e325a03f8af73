package types_test

import (
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	. "github.com/earlycare/authz/types"
)

func TestTypes(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "types test suit")
}

var _ = Describe("action", func() {
	DescribeTable("is in",
		func(a, b Action) {
			Expect(a.IsIn(b)).To(BeTrue())
		},
		Entry("view is in view", View, View),
		Entry("view is in view|edit", View, ViewEdit),
		Entry("edit is in all", Edit, AllActions),
	)

	DescribeTable("is not in",
		func(a, b Action) {
			Expect(a.IsIn(b)).To(BeFalse())
		},
		Entry("view is not in edit", View, Edit),
		Entry("delete is not in view|edit", Delete, ViewEdit),
		Entry("create is not in delete", Create, Delete),
	)

	DescribeTable("split",
		func(joined Action, splitted []interface{}) {
			Expect(joined.Split()).To(ConsistOf(splitted...))
		},
		Entry("view only", View, []interface{}{View}),
		Entry("view edit", ViewEdit, []interface{}{View, Edit}),
		Entry("all actions", AllActions, []interface{}{View, Edit, Delete, Create}),
	)

	DescribeTable("string",
		func(a Action, s string) {
			Expect(a.String()).To(Equal(s))
		},
		Entry("view", View, "view"),
		Entry("view edit", ViewEdit, "view|edit"),
		Entry("unknown", Action(1<<10), "unknown"),
	)
})

var _ = Describe("role", func() {
	It("parses known roles", func() {
		for _, r := range []Role{Admin, Teacher, Parent} {
			parsed, e := ParseRole(r.String())
			Expect(e).To(Succeed())
			Expect(parsed).To(Equal(r))
			Expect(r.Valid()).To(BeTrue())
		}
	})

	It("rejects unknown roles", func() {
		_, e := ParseRole("headmaster")
		Expect(e).To(MatchError(ErrInvalidRole))

		Expect(Role(0).Valid()).To(BeFalse())
		Expect(Role(0).String()).To(Equal("unknown"))
	})
})

var _ = Describe("record kind", func() {
	It("parses known kinds", func() {
		for _, k := range []RecordKind{Assessment, SupportPlan, ProgressReport} {
			parsed, e := ParseRecordKind(k.String())
			Expect(e).To(Succeed())
			Expect(parsed).To(Equal(k))
		}
	})

	It("rejects unknown kinds", func() {
		_, e := ParseRecordKind("report-card")
		Expect(e).To(MatchError(ErrUnknownRecordKind))
	})
})

var _ = Describe("staff set", func() {
	It("deduplicates on build", func() {
		set := NewStaffSet("t1", "t2", "t1")
		Expect(set).To(HaveLen(2))
		Expect(set.Has("t1")).To(BeTrue())
	})

	It("clones independently", func() {
		set := NewStaffSet("t1")
		clone := set.Clone()
		set.Add("t2")

		Expect(clone.Has("t2")).To(BeFalse())
		Expect(StaffSet(nil).Clone()).To(BeNil())
	})
})
