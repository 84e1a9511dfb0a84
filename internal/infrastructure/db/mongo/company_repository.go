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

const companyCollection = "companies"

type MongoCompanyRepository struct {
	coll *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *MongoCompanyRepository {
	return &MongoCompanyRepository{coll: db.Collection(companyCollection)}
}

// EnsureIndexes creates the unique owner index (one company per account).
func (r *MongoCompanyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create company indexes: %w", err)
	}
	return nil
}

type mongoCompany struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Name        string             `bson:"name"`
	Description string             `bson:"description,omitempty"`
	Sector      string             `bson:"sector,omitempty"`
	Country     string             `bson:"country,omitempty"`
	City        string             `bson:"city,omitempty"`
	Website     string             `bson:"website,omitempty"`
	Email       string             `bson:"email,omitempty"`
	Phone       string             `bson:"phone,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func toMongoCompany(c *domain.Company) mongoCompany {
	return mongoCompany{
		OwnerID:     c.OwnerID,
		Name:        c.Name,
		Description: c.Description,
		Sector:      c.Sector,
		Country:     c.Country,
		City:        c.City,
		Website:     c.Website,
		Email:       c.Email,
		Phone:       c.Phone,
		CreatedAt:   c.CreatedAt.Unix(),
		UpdatedAt:   c.UpdatedAt.Unix(),
	}
}

func (m *mongoCompany) toDomain() *domain.Company {
	return &domain.Company{
		ID:          m.ID.Hex(),
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Description: m.Description,
		Sector:      m.Sector,
		Country:     m.Country,
		City:        m.City,
		Website:     m.Website,
		Email:       m.Email,
		Phone:       m.Phone,
		CreatedAt:   unixToTime(m.CreatedAt),
		UpdatedAt:   unixToTime(m.UpdatedAt),
	}
}

func (r *MongoCompanyRepository) Create(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	res, err := r.coll.InsertOne(ctx, toMongoCompany(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCompanyExists
		}
		return nil, fmt.Errorf("insert company: %w", err)
	}

	created := *c
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoCompanyRepository) FindByID(ctx context.Context, id string) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	var mc mongoCompany
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoCompanyRepository) FindByOwner(ctx context.Context, ownerID string) (*domain.Company, error) {
	var mc mongoCompany
	if err := r.coll.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("find company: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoCompanyRepository) Update(ctx context.Context, c *domain.Company) (*domain.Company, error) {
	oid, err := primitive.ObjectIDFromHex(c.ID)
	if err != nil {
		return nil, domain.ErrCompanyNotFound
	}

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, toMongoCompany(c))
	if err != nil {
		return nil, fmt.Errorf("update company: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCompanyNotFound
	}
	return c, nil
}

func (r *MongoCompanyRepository) List(ctx context.Context, filter ports.ListCompaniesFilter) ([]*domain.Company, int64, error) {
	query := bson.M{}
	if filter.Sector != "" {
		query["sector"] = filter.Sector
	}
	if filter.Country != "" {
		query["country"] = filter.Country
	}
	if filter.Search != "" {
		query["name"] = bson.M{"$regex": filter.Search, "$options": "i"}
	}

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count companies: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	defer cursor.Close(ctx)

	var companies []*domain.Company
	for cursor.Next(ctx) {
		var mc mongoCompany
		if err := cursor.Decode(&mc); err != nil {
			return nil, 0, fmt.Errorf("decode company: %w", err)
		}
		companies = append(companies, mc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("list companies: %w", err)
	}
	return companies, total, nil
}
