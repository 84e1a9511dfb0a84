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

const requirementCollection = "requirements"

type MongoRequirementRepository struct {
	coll *mongo.Collection
}

func NewRequirementRepository(db *mongo.Database) *MongoRequirementRepository {
	return &MongoRequirementRepository{coll: db.Collection(requirementCollection)}
}

type mongoRequirement struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	BuyerID     string             `bson:"buyer_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Quantity    string             `bson:"quantity,omitempty"`
	Country     string             `bson:"country,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
}

func (m *mongoRequirement) toDomain() *domain.Requirement {
	return &domain.Requirement{
		ID:          m.ID.Hex(),
		BuyerID:     m.BuyerID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		Quantity:    m.Quantity,
		Country:     m.Country,
		CreatedAt:   unixToTime(m.CreatedAt),
	}
}

func (r *MongoRequirementRepository) Create(ctx context.Context, req *domain.Requirement) (*domain.Requirement, error) {
	doc := mongoRequirement{
		BuyerID:     req.BuyerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Country:     req.Country,
		CreatedAt:   req.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert requirement: %w", err)
	}

	created := *req
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoRequirementRepository) FindByID(ctx context.Context, id string) (*domain.Requirement, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRequirementNotFound
	}

	var mr mongoRequirement
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrRequirementNotFound
		}
		return nil, fmt.Errorf("find requirement: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *MongoRequirementRepository) List(ctx context.Context, filter ports.ListRequirementsFilter) ([]*domain.Requirement, int64, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Country != "" {
		query["country"] = filter.Country
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count requirements: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list requirements: %w", err)
	}
	defer cursor.Close(ctx)

	var requirements []*domain.Requirement
	for cursor.Next(ctx) {
		var mr mongoRequirement
		if err := cursor.Decode(&mr); err != nil {
			return nil, 0, fmt.Errorf("decode requirement: %w", err)
		}
		requirements = append(requirements, mr.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list requirements: %w", err)
	}
	return requirements, total, nil
}
