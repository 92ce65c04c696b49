package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimerStrategy is a user-defined interval timer preset (work/rest/rounds)
// used during workouts.
type TimerStrategy struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	Name        string             `bson:"name" json:"name"`
	WorkSeconds int                `bson:"workSeconds" json:"workSeconds"`
	RestSeconds int                `bson:"restSeconds" json:"restSeconds"`
	Rounds      int                `bson:"rounds" json:"rounds"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
