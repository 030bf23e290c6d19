package auth

import (
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Policy", func() {
	ginkgo.Describe("Allowed", func() {
		type grant struct {
			role     Role
			action   Action
			resource Resource
			want     bool
		}

		ginkgo.It("should enforce the employee permission table", func() {
			table := []grant{
				{RoleUser, ActionView, ResourceEmployee, true},
				{RoleUser, ActionCreate, ResourceEmployee, false},
				{RoleUser, ActionEdit, ResourceEmployee, false},
				{RoleUser, ActionDelete, ResourceEmployee, false},

				{RoleSuperUser, ActionView, ResourceEmployee, true},
				{RoleSuperUser, ActionCreate, ResourceEmployee, true},
				{RoleSuperUser, ActionEdit, ResourceEmployee, false},
				{RoleSuperUser, ActionDelete, ResourceEmployee, false},

				{RoleAdmin, ActionView, ResourceEmployee, true},
				{RoleAdmin, ActionCreate, ResourceEmployee, true},
				{RoleAdmin, ActionEdit, ResourceEmployee, true},
				{RoleAdmin, ActionDelete, ResourceEmployee, true},
			}

			for _, g := range table {
				gomega.Expect(Allowed(g.role, g.action, g.resource)).To(gomega.Equal(g.want),
					"role=%s action=%s resource=%s", g.role, g.action, g.resource)
			}
		})

		ginkgo.It("should restrict user management to admins", func() {
			for _, action := range []Action{ActionView, ActionCreate, ActionEdit, ActionDelete, ActionManage} {
				gomega.Expect(Allowed(RoleAdmin, action, ResourceUser)).To(gomega.BeTrue())
				gomega.Expect(Allowed(RoleSuperUser, action, ResourceUser)).To(gomega.BeFalse())
				gomega.Expect(Allowed(RoleUser, action, ResourceUser)).To(gomega.BeFalse())
			}
		})

		ginkgo.It("should restrict the audit trail to admins", func() {
			for _, action := range []Action{ActionView, ActionExport} {
				gomega.Expect(Allowed(RoleAdmin, action, ResourceAudit)).To(gomega.BeTrue())
				gomega.Expect(Allowed(RoleSuperUser, action, ResourceAudit)).To(gomega.BeFalse())
				gomega.Expect(Allowed(RoleUser, action, ResourceAudit)).To(gomega.BeFalse())
			}
		})

		ginkgo.It("should deny unknown combinations", func() {
			gomega.Expect(Allowed(RoleAdmin, ActionExport, ResourceEmployee)).To(gomega.BeFalse())
			gomega.Expect(Allowed(Role("owner"), ActionView, ResourceEmployee)).To(gomega.BeFalse())
			gomega.Expect(Allowed(RoleAdmin, ActionView, Resource("invoice"))).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("AllowedRoles", func() {
		ginkgo.It("should return the roles behind an access denied message", func() {
			roles := AllowedRoles(ActionCreate, ResourceEmployee)
			gomega.Expect(roles).To(gomega.Equal([]Role{RoleSuperUser, RoleAdmin}))
			gomega.Expect(roleList(roles)).To(gomega.Equal("super_user, admin"))
		})
	})

	ginkgo.Describe("ParseRole", func() {
		ginkgo.It("should accept the three known roles", func() {
			for _, name := range []string{"user", "super_user", "admin"} {
				role, ok := ParseRole(name)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(string(role)).To(gomega.Equal(name))
			}
		})

		ginkgo.It("should reject anything else", func() {
			_, ok := ParseRole("superuser")
			gomega.Expect(ok).To(gomega.BeFalse())
			_, ok = ParseRole("")
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})
})
