package validators

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestCommandFailed(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int32
		phrases []string
		want    bool
	}{
		{"code match", mongo.CommandError{Code: 48, Message: "x"}, 48, nil, true},
		{"code mismatch", mongo.CommandError{Code: 26, Message: "ns not found"}, 48, []string{"already exists"}, false},
		{"phrase match", mongo.CommandError{Code: 0, Message: "Collection already exists"}, 48, []string{"already exists"}, true},
		{"plain error phrase", errors.New("no such command: collMod"), 59, []string{"no such command"}, true},
		{"plain error other", errors.New("connection refused"), 59, []string{"no such command"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := commandFailed(tt.err, tt.code, tt.phrases...); got != tt.want {
				t.Errorf("commandFailed() = %v, want %v", got, tt.want)
			}
		})
	}
}
