package models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type ClientRepo interface {
	CreateClient(ctx context.Context, client *Client, accessToken string) (*Client, error)
	ListClients(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Client, error)
	GetClientByPortalID(ctx context.Context, portalAccessID uuid.UUID) (*Client, error)
	UpdateClient(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Client, error)
	DeleteClient(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

type ProjectRepo interface {
	CreateProject(ctx context.Context, project *Project, accessToken string) (*Project, error)
	ListProjects(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Project, error)
	ListProjectsByClient(ctx context.Context, clientID uuid.UUID) ([]*Project, error)
	UpdateProject(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Project, error)
	DeleteProject(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

type LeadRepo interface {
	CreateLead(ctx context.Context, lead *Lead, accessToken string) (*Lead, error)
	ListLeads(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Lead, error)
	UpdateLead(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Lead, error)
	DeleteLead(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

type TransactionRepo interface {
	CreateTransaction(ctx context.Context, tx *Transaction, accessToken string) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id, userID uuid.UUID, accessToken string) error
}

type FeedbackRepo interface {
	CreateFeedback(ctx context.Context, feedback *ClientFeedback) (*ClientFeedback, error)
	ListFeedback(ctx context.Context, userID uuid.UUID, accessToken string) ([]*ClientFeedback, error)
}

const (
	clientColumns      = "id,user_id,name,email,phone,whatsapp,instagram,client_type,status,since,last_contact,portal_access_id,created_at"
	projectColumns     = "id,user_id,project_name,client_id,client_name,project_type,package_id,package_name,add_ons,date,location,progress,status,booking_status,total_cost,amount_paid,payment_status,notes,promo_code_id,discount_amount,dp_proof_url,rejection_reason,created_at"
	leadColumns        = "id,user_id,name,contact_channel,location,status,date,notes,whatsapp,created_at"
	transactionColumns = "id,user_id,date,description,amount,type,project_id,category,method,created_at"
	feedbackColumns    = "id,user_id,client_name,rating,satisfaction,feedback,date,created_at"
)

func ownedBy(id, userID uuid.UUID) map[string]string {
	return map[string]string{"id": id.String(), "user_id": userID.String()}
}

func (su *SupabaseRepo) listOwned(table, columns, orderBy string, userID uuid.UUID, accessToken string) ([]byte, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(table).
		Select(columns, "", false).
		Eq("user_id", userID.String()).
		Order(orderBy, newestFirst()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %v", table, err)
	}
	return raw, nil
}

func (su *SupabaseRepo) CreateClient(ctx context.Context, c *Client, accessToken string) (*Client, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return insertRow[Client](client, ClientsTable, map[string]interface{}{
		"user_id":          c.UserID,
		"name":             c.Name,
		"email":            c.Email,
		"phone":            c.Phone,
		"whatsapp":         c.Whatsapp,
		"instagram":        c.Instagram,
		"client_type":      c.ClientType,
		"status":           c.Status,
		"since":            c.Since,
		"last_contact":     c.LastContact,
		"portal_access_id": c.PortalAccessID,
	})
}

func (su *SupabaseRepo) ListClients(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Client, error) {
	raw, err := su.listOwned(ClientsTable, clientColumns, "created_at", userID, accessToken)
	if err != nil {
		return nil, err
	}
	return decodeRows[Client](raw)
}

func (su *SupabaseRepo) GetClientByPortalID(ctx context.Context, portalAccessID uuid.UUID) (*Client, error) {
	client, err := su.clientFor("")
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(ClientsTable).
		Select(clientColumns, "", false).
		Eq("portal_access_id", portalAccessID.String()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get client by portal id: %v", err)
	}
	return decodeSingle[Client](raw)
}

func (su *SupabaseRepo) UpdateClient(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Client, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return updateRow[Client](client, ClientsTable, fields, ownedBy(id, userID))
}

func (su *SupabaseRepo) DeleteClient(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, ClientsTable, ownedBy(id, userID))
}

func (su *SupabaseRepo) CreateProject(ctx context.Context, p *Project, accessToken string) (*Project, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	addOns := p.AddOns
	if addOns == nil {
		addOns = []AddOn{}
	}
	return insertRow[Project](client, ProjectsTable, map[string]interface{}{
		"user_id":         p.UserID,
		"project_name":    p.ProjectName,
		"client_id":       p.ClientID,
		"client_name":     p.ClientName,
		"project_type":    p.ProjectType,
		"package_id":      p.PackageID,
		"package_name":    p.PackageName,
		"add_ons":         addOns,
		"date":            p.Date,
		"location":        p.Location,
		"progress":        p.Progress,
		"status":          p.Status,
		"booking_status":  p.BookingStatus,
		"total_cost":      p.TotalCost,
		"amount_paid":     p.AmountPaid,
		"payment_status":  p.PaymentStatus,
		"notes":           p.Notes,
		"promo_code_id":   p.PromoCodeID,
		"discount_amount": p.DiscountAmount,
		"dp_proof_url":    p.DpProofURL,
	})
}

func (su *SupabaseRepo) ListProjects(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Project, error) {
	raw, err := su.listOwned(ProjectsTable, projectColumns, "created_at", userID, accessToken)
	if err != nil {
		return nil, err
	}
	return decodeRows[Project](raw)
}

func (su *SupabaseRepo) ListProjectsByClient(ctx context.Context, clientID uuid.UUID) ([]*Project, error) {
	client, err := su.clientFor("")
	if err != nil {
		return nil, err
	}
	raw, _, err := client.From(ProjectsTable).
		Select(projectColumns, "", false).
		Eq("client_id", clientID.String()).
		Order("date", newestFirst()).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get client projects: %v", err)
	}
	return decodeRows[Project](raw)
}

func (su *SupabaseRepo) UpdateProject(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Project, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return updateRow[Project](client, ProjectsTable, fields, ownedBy(id, userID))
}

func (su *SupabaseRepo) DeleteProject(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, ProjectsTable, ownedBy(id, userID))
}

func (su *SupabaseRepo) CreateLead(ctx context.Context, l *Lead, accessToken string) (*Lead, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return insertRow[Lead](client, LeadsTable, map[string]interface{}{
		"user_id":         l.UserID,
		"name":            l.Name,
		"contact_channel": l.ContactChannel,
		"location":        l.Location,
		"status":          l.Status,
		"date":            l.Date,
		"notes":           l.Notes,
		"whatsapp":        l.Whatsapp,
	})
}

func (su *SupabaseRepo) ListLeads(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Lead, error) {
	raw, err := su.listOwned(LeadsTable, leadColumns, "created_at", userID, accessToken)
	if err != nil {
		return nil, err
	}
	return decodeRows[Lead](raw)
}

func (su *SupabaseRepo) UpdateLead(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}, accessToken string) (*Lead, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return updateRow[Lead](client, LeadsTable, fields, ownedBy(id, userID))
}

func (su *SupabaseRepo) DeleteLead(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, LeadsTable, ownedBy(id, userID))
}

func (su *SupabaseRepo) CreateTransaction(ctx context.Context, t *Transaction, accessToken string) (*Transaction, error) {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return nil, err
	}
	return insertRow[Transaction](client, TransactionsTable, map[string]interface{}{
		"user_id":     t.UserID,
		"date":        t.Date,
		"description": t.Description,
		"amount":      t.Amount,
		"type":        t.Type,
		"project_id":  t.ProjectID,
		"category":    t.Category,
		"method":      t.Method,
	})
}

func (su *SupabaseRepo) ListTransactions(ctx context.Context, userID uuid.UUID, accessToken string) ([]*Transaction, error) {
	raw, err := su.listOwned(TransactionsTable, transactionColumns, "date", userID, accessToken)
	if err != nil {
		return nil, err
	}
	return decodeRows[Transaction](raw)
}

func (su *SupabaseRepo) DeleteTransaction(ctx context.Context, id, userID uuid.UUID, accessToken string) error {
	client, err := su.clientFor(accessToken)
	if err != nil {
		return err
	}
	return deleteRow(client, TransactionsTable, ownedBy(id, userID))
}

func (su *SupabaseRepo) CreateFeedback(ctx context.Context, f *ClientFeedback) (*ClientFeedback, error) {
	client, err := su.clientFor("")
	if err != nil {
		return nil, err
	}
	return insertRow[ClientFeedback](client, FeedbackTable, map[string]interface{}{
		"user_id":      f.UserID,
		"client_name":  f.ClientName,
		"rating":       f.Rating,
		"satisfaction": f.Satisfaction,
		"feedback":     f.Feedback,
		"date":         f.Date,
	})
}

func (su *SupabaseRepo) ListFeedback(ctx context.Context, userID uuid.UUID, accessToken string) ([]*ClientFeedback, error) {
	raw, err := su.listOwned(FeedbackTable, feedbackColumns, "created_at", userID, accessToken)
	if err != nil {
		return nil, err
	}
	return decodeRows[ClientFeedback](raw)
}
