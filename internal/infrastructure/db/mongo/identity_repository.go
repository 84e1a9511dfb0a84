package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/b2blink/marketplace-api/internal/core/domain"
)

const identityCollection = "identities"

type MongoIdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *MongoIdentityRepository {
	return &MongoIdentityRepository{coll: db.Collection(identityCollection)}
}

// EnsureIndexes creates the unique email index backing duplicate detection.
func (r *MongoIdentityRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create identity indexes: %w", err)
	}
	return nil
}

type mongoIdentity struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	Role              string             `bson:"role"`
	ProfileStatus     string             `bson:"profile_status"`
	MembershipStatus  string             `bson:"membership_status"`
	Verified          bool               `bson:"verified"`
	Prefix            string             `bson:"prefix,omitempty"`
	FirstName         string             `bson:"first_name,omitempty"`
	LastName          string             `bson:"last_name,omitempty"`
	Mobile            string             `bson:"mobile,omitempty"`
	Designation       string             `bson:"designation,omitempty"`
	Country           string             `bson:"country,omitempty"`
	SectorsOfInterest []string           `bson:"sectors_of_interest,omitempty"`
	FunctionalAreas   []string           `bson:"functional_areas,omitempty"`
	CreatedAt         int64              `bson:"created_at"`
	UpdatedAt         int64              `bson:"updated_at"`
}

func toMongoIdentity(i *domain.Identity) mongoIdentity {
	return mongoIdentity{
		Email:             i.Email,
		PasswordHash:      i.PasswordHash,
		Role:              string(i.Role),
		ProfileStatus:     string(i.ProfileStatus),
		MembershipStatus:  string(i.MembershipStatus),
		Verified:          i.Verified,
		Prefix:            i.Prefix,
		FirstName:         i.FirstName,
		LastName:          i.LastName,
		Mobile:            i.Mobile,
		Designation:       i.Designation,
		Country:           i.Country,
		SectorsOfInterest: i.SectorsOfInterest,
		FunctionalAreas:   i.FunctionalAreas,
		CreatedAt:         i.CreatedAt.Unix(),
		UpdatedAt:         i.UpdatedAt.Unix(),
	}
}

func (m *mongoIdentity) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:                m.ID.Hex(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		Role:              domain.Role(m.Role),
		ProfileStatus:     domain.ProfileStatus(m.ProfileStatus),
		MembershipStatus:  domain.MembershipStatus(m.MembershipStatus),
		Verified:          m.Verified,
		Prefix:            m.Prefix,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Mobile:            m.Mobile,
		Designation:       m.Designation,
		Country:           m.Country,
		SectorsOfInterest: m.SectorsOfInterest,
		FunctionalAreas:   m.FunctionalAreas,
		CreatedAt:         unixToTime(m.CreatedAt),
		UpdatedAt:         unixToTime(m.UpdatedAt),
	}
}

func (r *MongoIdentityRepository) Create(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := toMongoIdentity(identity)

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrIdentityExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	created := *identity
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *MongoIdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoIdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return mi.toDomain(), nil
}

func (r *MongoIdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	doc := toMongoIdentity(identity)
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		return nil, fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrIdentityNotFound
	}
	return identity, nil
}

func (r *MongoIdentityRepository) SetVerified(ctx context.Context, id string, verified bool) error {
	return r.setField(ctx, id, bson.M{"verified": verified})
}

func (r *MongoIdentityRepository) SetProfileStatus(ctx context.Context, id string, status domain.ProfileStatus) error {
	return r.setField(ctx, id, bson.M{"profile_status": string(status)})
}

func (r *MongoIdentityRepository) SetMembershipStatus(ctx context.Context, id string, status domain.MembershipStatus) error {
	return r.setField(ctx, id, bson.M{"membership_status": string(status)})
}

func (r *MongoIdentityRepository) setField(ctx context.Context, id string, fields bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrIdentityNotFound
	}

	fields["updated_at"] = time.Now().UTC().Unix()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrIdentityNotFound
	}
	return nil
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
