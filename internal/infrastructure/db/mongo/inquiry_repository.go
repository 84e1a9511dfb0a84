package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/b2blink/marketplace-api/internal/core/domain"
	"github.com/b2blink/marketplace-api/internal/core/ports"
)

const inquiryCollection = "inquiries"

type MongoInquiryRepository struct {
	coll *mongo.Collection
}

func NewInquiryRepository(db *mongo.Database) *MongoInquiryRepository {
	return &MongoInquiryRepository{coll: db.Collection(inquiryCollection)}
}

type mongoInquiry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	FromID    string             `bson:"from_id"`
	CompanyID string             `bson:"company_id"`
	ProductID string             `bson:"product_id,omitempty"`
	Subject   string             `bson:"subject"`
	Message   string             `bson:"message"`
	CreatedAt int64              `bson:"created_at"`
}

func (m *mongoInquiry) toDomain() *domain.Inquiry {
	return &domain.Inquiry{
		ID:        m.ID.Hex(),
		FromID:    m.FromID,
		CompanyID: m.CompanyID,
		ProductID: m.ProductID,
		Subject:   m.Subject,
		Message:   m.Message,
		CreatedAt: unixToTime(m.CreatedAt),
	}
}

func (r *MongoInquiryRepository) Create(ctx context.Context, i *domain.Inquiry) (*domain.Inquiry, error) {
	doc := mongoInquiry{
		FromID:    i.FromID,
		CompanyID: i.CompanyID,
		ProductID: i.ProductID,
		Subject:   i.Subject,
		Message:   i.Message,
		CreatedAt: i.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert inquiry: %w", err)
	}

	created := *i
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoInquiryRepository) ListByCompany(ctx context.Context, filter ports.ListInquiriesFilter) ([]*domain.Inquiry, int64, error) {
	query := bson.M{"company_id": filter.CompanyID}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count inquiries: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	var inquiries []*domain.Inquiry
	for cursor.Next(ctx) {
		var mi mongoInquiry
		if err := cursor.Decode(&mi); err != nil {
			return nil, 0, fmt.Errorf("decode inquiry: %w", err)
		}
		inquiries = append(inquiries, mi.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list inquiries: %w", err)
	}
	return inquiries, total, nil
}
