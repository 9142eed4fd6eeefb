package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

var Validate = newValidator()

// newValidator reports fields by their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func init() {
	// numeric columns travel as JSON numbers in both directions
	decimal.MarshalJSONWithoutQuotes = true
}

const (
	ProfilesTable     = "profiles"
	ClientsTable      = "clients"
	PackagesTable     = "packages"
	AddOnsTable       = "add_ons"
	LeadsTable        = "leads"
	ProjectsTable     = "projects"
	TransactionsTable = "transactions"
	PromoCodesTable   = "promo_codes"
	FeedbackTable     = "client_feedback"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrPromoCodeExhausted = errors.New("promo code usage limit reached")
	ErrPromoCodeContended = errors.New("promo code usage changed concurrently")
)

type SupabaseRepo struct {
	supabaseClient *supabase.Client
	// serviceClient performs writes on behalf of unauthenticated public forms.
	serviceClient *supabase.Client
	url           string
	key           string
}

func SupabaseNewRepo(supabaseClient, serviceClient *supabase.Client, url, key string) *SupabaseRepo {
	return &SupabaseRepo{
		supabaseClient: supabaseClient,
		serviceClient:  serviceClient,
		url:            url,
		key:            key,
	}
}

// GetAuthenticatedClient returns a Supabase client with the given access token
func (su *SupabaseRepo) GetAuthenticatedClient(accessToken string) (*supabase.Client, error) {
	if su.url == "" || su.key == "" {
		return su.supabaseClient, nil
	}

	options := &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	}

	return supabase.NewClient(su.url, su.key, options)
}

// clientFor picks the vendor-scoped client when a token is present and the
// public writer otherwise.
func (su *SupabaseRepo) clientFor(accessToken string) (*supabase.Client, error) {
	if accessToken != "" {
		client, err := su.GetAuthenticatedClient(accessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to create authenticated client: %v", err)
		}
		return client, nil
	}
	if su.serviceClient != nil {
		return su.serviceClient, nil
	}
	return su.supabaseClient, nil
}

func newestFirst() *postgrest.OrderOpts {
	return &postgrest.OrderOpts{Ascending: false}
}

// decodeRows unmarshals a PostgREST response body, which is always an array.
func decodeRows[T any](raw []byte) ([]*T, error) {
	var rows []*T
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s rows: %v", tableOf[T](), err)
	}
	return rows, nil
}

func decodeSingle[T any](raw []byte) (*T, error) {
	rows, err := decodeRows[T](raw)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

func tableOf[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

func insertRow[T any](client *supabase.Client, table string, row map[string]interface{}) (*T, error) {
	raw, _, err := client.From(table).
		Insert(row, false, "", "representation", "exact").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to insert into %s: %v", table, err)
	}
	return decodeSingle[T](raw)
}

func updateRow[T any](client *supabase.Client, table string, fields map[string]interface{}, filters map[string]string) (*T, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}
	query := client.From(table).Update(fields, "representation", "exact")
	for column, value := range filters {
		query = query.Eq(column, value)
	}
	raw, _, err := query.Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to update %s: %v", table, err)
	}
	return decodeSingle[T](raw)
}

func deleteRow(client *supabase.Client, table string, filters map[string]string) error {
	query := client.From(table).Delete("representation", "exact")
	for column, value := range filters {
		query = query.Eq(column, value)
	}
	raw, _, err := query.Execute()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %v", table, err)
	}
	var deleted []map[string]interface{}
	if err := json.Unmarshal(raw, &deleted); err != nil {
		return fmt.Errorf("failed to unmarshal deleted %s rows: %v", table, err)
	}
	if len(deleted) == 0 {
		return ErrNotFound
	}
	return nil
}

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	if dbName == "" {
		dbName = DefaultMongoDBName
	}
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}
