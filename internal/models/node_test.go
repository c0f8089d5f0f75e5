package models_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kubev2v/node-inspector/internal/models"
)

var _ = Describe("NextProvisionState", func() {
	DescribeTable("allowed transitions",
		func(from models.ProvisionState, event models.Event, expected models.ProvisionState) {
			next, ok := models.NextProvisionState(from, event)
			Expect(ok).To(BeTrue())
			Expect(next).To(Equal(expected))
		},
		Entry("manage enrolled node", models.ProvisionStateEnroll, models.EventManage, models.ProvisionStateManageable),
		Entry("inspect manageable node", models.ProvisionStateManageable, models.EventInspect, models.ProvisionStateInspecting),
		Entry("inspection done", models.ProvisionStateInspecting, models.EventDone, models.ProvisionStateManageable),
		Entry("inspection failed", models.ProvisionStateInspecting, models.EventFail, models.ProvisionStateInspectFailed),
		Entry("inspection aborted", models.ProvisionStateInspecting, models.EventAbort, models.ProvisionStateInspectFailed),
		Entry("retry failed inspection", models.ProvisionStateInspectFailed, models.EventInspect, models.ProvisionStateInspecting),
		Entry("provide manageable node", models.ProvisionStateManageable, models.EventProvide, models.ProvisionStateAvailable),
	)

	DescribeTable("rejected transitions",
		func(from models.ProvisionState, event models.Event) {
			_, ok := models.NextProvisionState(from, event)
			Expect(ok).To(BeFalse())
		},
		Entry("done outside inspection", models.ProvisionStateManageable, models.EventDone),
		Entry("fail outside inspection", models.ProvisionStateAvailable, models.EventFail),
		Entry("inspect enrolled node", models.ProvisionStateEnroll, models.EventInspect),
		Entry("unknown state", models.ProvisionState("deploying"), models.EventDone),
	)
})

var _ = Describe("Queue", func() {
	It("should pop items in insertion order", func() {
		q := &models.Queue[int]{}
		q.Push(1)
		q.Push(2)
		q.Push(3)

		Expect(q.Len()).To(Equal(3))
		Expect(q.Pop()).To(Equal(1))
		Expect(q.Pop()).To(Equal(2))
		Expect(q.Len()).To(Equal(1))
	})
})
