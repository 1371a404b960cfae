package transcript_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ewittry/parley/pkg/chat"
	"github.com/ewittry/parley/pkg/transcript"
)

var _ = Describe("Entry", func() {
	Describe("NewEntry", func() {
		Context("when creating the first entry of a conversation", func() {
			It("carries the turn's role and content", func() {
				e := transcript.NewEntry(chat.UserTurn("hello world"), "test-model", nil)

				Expect(e.Role).To(Equal(chat.RoleUser))
				Expect(e.Content).To(Equal("hello world"))
				Expect(e.Model).To(Equal("test-model"))
			})

			It("sets ParentHash to nil", func() {
				e := transcript.NewEntry(chat.UserTurn("test"), "m", nil)

				Expect(e.ParentHash).To(BeNil())
			})

			It("computes a non-empty hash", func() {
				e := transcript.NewEntry(chat.UserTurn("test"), "m", nil)

				Expect(e.Hash).NotTo(BeEmpty())
			})

			It("produces consistent hashes for the same turn", func() {
				e1 := transcript.NewEntry(chat.UserTurn("same content"), "m", nil)
				e2 := transcript.NewEntry(chat.UserTurn("same content"), "m", nil)

				Expect(e1.Hash).To(Equal(e2.Hash))
			})

			It("produces different hashes for different content", func() {
				e1 := transcript.NewEntry(chat.UserTurn("content A"), "m", nil)
				e2 := transcript.NewEntry(chat.UserTurn("content B"), "m", nil)

				Expect(e1.Hash).NotTo(Equal(e2.Hash))
			})

			It("produces different hashes for different roles", func() {
				e1 := transcript.NewEntry(chat.UserTurn("same"), "m", nil)
				e2 := transcript.NewEntry(chat.AssistantTurn("same"), "m", nil)

				Expect(e1.Hash).NotTo(Equal(e2.Hash))
			})

			It("produces different hashes for different models", func() {
				e1 := transcript.NewEntry(chat.UserTurn("same"), "model-a", nil)
				e2 := transcript.NewEntry(chat.UserTurn("same"), "model-b", nil)

				Expect(e1.Hash).NotTo(Equal(e2.Hash))
			})

			It("excludes the timestamp from the hash", func() {
				e1 := transcript.NewEntry(chat.UserTurn("same"), "m", nil)
				e2 := transcript.NewEntry(chat.UserTurn("same"), "m", nil)

				// CreatedAt differs between the two, hashes must not
				Expect(e1.Hash).To(Equal(e2.Hash))
			})
		})

		Context("when chaining onto a parent", func() {
			var parent *transcript.Entry

			BeforeEach(func() {
				parent = transcript.NewEntry(chat.UserTurn("parent"), "m", nil)
			})

			It("links the child to the parent via ParentHash", func() {
				child := transcript.NewEntry(chat.AssistantTurn("child"), "m", parent)

				Expect(child.ParentHash).NotTo(BeNil())
				Expect(*child.ParentHash).To(Equal(parent.Hash))
			})

			It("creates a chain of entries", func() {
				c1 := transcript.NewEntry(chat.AssistantTurn("one"), "m", parent)
				c2 := transcript.NewEntry(chat.UserTurn("two"), "m", c1)
				c3 := transcript.NewEntry(chat.AssistantTurn("three"), "m", c2)

				Expect(parent.ParentHash).To(BeNil())
				Expect(*c1.ParentHash).To(Equal(parent.Hash))
				Expect(*c2.ParentHash).To(Equal(c1.Hash))
				Expect(*c3.ParentHash).To(Equal(c2.Hash))
			})

			It("produces different hashes for the same turn under different parents", func() {
				other := transcript.NewEntry(chat.UserTurn("different parent"), "m", nil)
				c1 := transcript.NewEntry(chat.AssistantTurn("same"), "m", parent)
				c2 := transcript.NewEntry(chat.AssistantTurn("same"), "m", other)

				Expect(c1.Hash).NotTo(Equal(c2.Hash))
			})
		})
	})

	Describe("Hash computation", func() {
		It("produces a valid SHA-256 hex string (64 characters)", func() {
			e := transcript.NewEntry(chat.UserTurn("test"), "m", nil)

			Expect(e.Hash).To(HaveLen(64))
			Expect(e.Hash).To(MatchRegexp("^[a-f0-9]{64}$"))
		})
	})
})
