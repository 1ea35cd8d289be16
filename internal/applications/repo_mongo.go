package applications

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName matches the collection Mongoose derives from ApplicationDetails.
const CollectionName = "applicationdetails"

type mongoApplication struct {
	ID                     primitive.ObjectID `bson:"_id"`
	UserID                 string             `bson:"userId"`
	ApplicationName        string             `bson:"applicationName"`
	BorrowersName          string             `bson:"borrowersName"`
	Description            string             `bson:"description,omitempty"`
	AadharNumber           string             `bson:"aadharNumber"`
	PanNumber              string             `bson:"panNumber"`
	CreditAssessmentReport string             `bson:"creditAssessmentReport,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt"`
}

type MongoRepo struct {
	coll *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the userId listing index.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create application index: %w", err)
	}
	return nil
}

// NewObjectID returns a fresh ObjectID in hex, the ID format of this store.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}

// Create inserts app. IDs that are not ObjectID hex are replaced.
func (r *MongoRepo) Create(ctx context.Context, app Application) error {
	doc := toMongo(app)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *MongoRepo) ListByUser(ctx context.Context, userID string) ([]Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]Application, 0)
	for cur.Next(ctx) {
		var doc mongoApplication
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		out = append(out, fromMongo(doc))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return out, nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

func toMongo(app Application) mongoApplication {
	id, err := primitive.ObjectIDFromHex(app.ID)
	if err != nil {
		id = primitive.NewObjectID()
	}
	return mongoApplication{
		ID:                     id,
		UserID:                 app.UserID,
		ApplicationName:        app.ApplicationName,
		BorrowersName:          app.BorrowersName,
		Description:            app.Description,
		AadharNumber:           app.AadharNumber,
		PanNumber:              app.PanNumber,
		CreditAssessmentReport: app.CreditAssessmentReport,
		CreatedAt:              app.CreatedAt,
	}
}

func fromMongo(doc mongoApplication) Application {
	return Application{
		ID:                     doc.ID.Hex(),
		UserID:                 doc.UserID,
		ApplicationName:        doc.ApplicationName,
		BorrowersName:          doc.BorrowersName,
		Description:            doc.Description,
		AadharNumber:           doc.AadharNumber,
		PanNumber:              doc.PanNumber,
		CreditAssessmentReport: doc.CreditAssessmentReport,
		CreatedAt:              doc.CreatedAt,
	}
}

var _ Repo = (*MongoRepo)(nil)
