// Package mocks provides centralized mock implementations for testing.
//
// Mocks use function fields: set the field for the behaviour a test needs
// and leave the rest at their defaults. Store mocks record the arguments of
// their last call so tests can assert on what reached the store.
//
//	import "github.com/stockpile/stockpile-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    jwtSvc := &mocks.MockJWTService{
//	        ValidateTokenFn: func(ctx context.Context, token string) (*auth.Claims, error) {
//	            return &auth.Claims{Email: "a@x.io"}, nil
//	        },
//	    }
//	    // Use the mock in your test...
//	}
package mocks
