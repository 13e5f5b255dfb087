package authorization

import (
	"strings"

	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
)

const (
	ObjectLedger   = "ledger"
	ObjectReading  = "reading"
	ObjectBill     = "bill"
	ObjectPayment  = "payment"
	ObjectCustomer = "customer"
	ObjectMeter    = "meter"
	ObjectTariff   = "tariff"
	ObjectUtility  = "utility"
	ObjectStaff    = "staff"
	ObjectAuditLog = "audit_log"
)

const (
	ActionLedgerView = "ledger.view"

	ActionReadingSubmit  = "reading.submit"
	ActionBillGenerate   = "bill.generate"
	ActionPaymentRecord  = "payment.record"
	ActionCustomerManage = "customer.manage"
	ActionCustomerDelete = "customer.delete"
	ActionMeterManage    = "meter.manage"
	ActionMeterDelete    = "meter.delete"
	ActionTariffManage   = "tariff.manage"
	ActionTariffDelete   = "tariff.delete"
	ActionUtilityManage  = "utility.manage"
	ActionStaffManage    = "staff.manage"
	ActionAuditLogView   = "audit_log.view"
)

// RoleSubject is the casbin subject a role's policies are attached to.
func RoleSubject(role authdomain.Role) string {
	return "role:" + strings.ToLower(string(role))
}

func StaffSubject(staffID string) string {
	return "staff:" + staffID
}

// objectOf returns the object half of an action such as "bill.generate".
func objectOf(action string) string {
	object, _, _ := strings.Cut(action, ".")
	return object
}

var grants = map[authdomain.Role][]string{
	authdomain.RoleAdmin: {
		ActionLedgerView,
		ActionReadingSubmit,
		ActionBillGenerate,
		ActionPaymentRecord,
		ActionCustomerManage,
		ActionCustomerDelete,
		ActionMeterManage,
		ActionMeterDelete,
		ActionTariffManage,
		ActionTariffDelete,
		ActionUtilityManage,
		ActionStaffManage,
		ActionAuditLogView,
	},
	authdomain.RoleFieldOfficer: {
		ActionLedgerView,
		ActionReadingSubmit,
	},
	authdomain.RoleCashier: {
		ActionLedgerView,
		ActionBillGenerate,
		ActionPaymentRecord,
	},
	authdomain.RoleManager: {
		ActionLedgerView,
		ActionAuditLogView,
	},
}

func defaultPolicies() [][]string {
	var policies [][]string
	for _, role := range authdomain.Roles() {
		for _, action := range grants[role] {
			policies = append(policies, []string{RoleSubject(role), objectOf(action), action})
		}
	}
	return policies
}
