package menu

import (
	"fmt"
	"strconv"

	"epicevents.org/internal/crm"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func formatBool(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

var customerHeaders = []string{"ID", "Name", "Email", "Phone", "Company", "Commercial"}

func customerRows(customers []*crm.Customer) [][]string {
	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{
			formatID(c.ID),
			c.FirstName + " " + c.LastName,
			c.Email,
			c.PhoneNumber,
			c.Company,
			c.CommercialEmail,
		})
	}
	return rows
}

var contractHeaders = []string{"ID", "Title", "Customer", "Amount", "Outstanding", "Signed"}

func contractRows(contracts []*crm.Contract) [][]string {
	rows := make([][]string, 0, len(contracts))
	for _, c := range contracts {
		rows = append(rows, []string{
			formatID(c.ID),
			c.Title,
			c.CustomerEmail,
			fmt.Sprintf("%.2f", c.Amount),
			fmt.Sprintf("%.2f", c.Outstanding),
			formatBool(c.Signed),
		})
	}
	return rows
}

var eventHeaders = []string{"ID", "Title", "Contract", "Location", "Attendees", "Start", "End", "Support"}

func eventRows(events []*crm.Event) [][]string {
	rows := make([][]string, 0, len(events))
	for _, e := range events {
		start, end := "-", "-"
		if e.Start != nil {
			start = e.Start.Format(crm.EventDateLayout)
		}
		if e.End != nil {
			end = e.End.Format(crm.EventDateLayout)
		}
		support := "-"
		if e.SupportEmail != "" {
			support = e.SupportEmail
		}
		rows = append(rows, []string{
			formatID(e.ID),
			e.Title,
			e.ContractTitle,
			e.Location,
			strconv.Itoa(e.Attendees),
			start,
			end,
			support,
		})
	}
	return rows
}

var employeeHeaders = []string{"ID", "Name", "Email", "Role"}

func employeeRows(employees []*crm.Employee) [][]string {
	rows := make([][]string, 0, len(employees))
	for _, e := range employees {
		role := e.RoleName
		if role == "" {
			role = "-"
		}
		rows = append(rows, []string{
			formatID(e.ID),
			e.FirstName + " " + e.LastName,
			e.Email,
			role,
		})
	}
	return rows
}

var roleHeaders = []string{"ID", "Name", "Employee", "Role", "Customer", "Contract", "Event", "Access all", "Support pool"}

func capabilityCell(c crm.Capability) string {
	switch {
	case c.CreateUpdateDelete:
		return "crud"
	case c.ReadUpdate:
		return "ru"
	case c.Read:
		return "r"
	}
	return "-"
}

func accessAllCell(r *crm.Role) string {
	out := ""
	if r.AccessAllCustomers {
		out += "cust "
	}
	if r.AccessAllContracts {
		out += "contr "
	}
	if r.AccessAllEvents {
		out += "event"
	}
	if out == "" {
		return "-"
	}
	return out
}

func roleRows(roles []*crm.Role) [][]string {
	rows := make([][]string, 0, len(roles))
	for _, r := range roles {
		rows = append(rows, []string{
			formatID(r.ID),
			r.Name,
			capabilityCell(r.Employee),
			capabilityCell(r.Role),
			capabilityCell(r.Customer),
			capabilityCell(r.Contract),
			capabilityCell(r.Event),
			accessAllCell(r),
			formatBool(r.AssignableSupport),
		})
	}
	return rows
}
