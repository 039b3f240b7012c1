package censusstream

// SubscribeOptions holds the optional parts of a subscription request.
type SubscribeOptions struct {
	Characters                     []string
	LogicalAndCharactersWithWorlds bool
}

// SubscribeOption customizes a Subscribe or Unsubscribe call.
type SubscribeOption func(*SubscribeOptions)

// WithCharacters scopes the request to the given character IDs instead of
// CharactersAll.
func WithCharacters(ids ...string) SubscribeOption {
	return func(o *SubscribeOptions) {
		o.Characters = ids
	}
}

// WithLogicalAndCharactersWithWorlds makes the server match events that
// satisfy both the character and the world filters, instead of either.
// Ignored by Unsubscribe.
func WithLogicalAndCharactersWithWorlds(v bool) SubscribeOption {
	return func(o *SubscribeOptions) {
		o.LogicalAndCharactersWithWorlds = v
	}
}

// ApplySubscribeOptions returns the options with defaults filled in.
func ApplySubscribeOptions(opts ...SubscribeOption) SubscribeOptions {
	o := SubscribeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if len(o.Characters) == 0 {
		o.Characters = []string{CharactersAll}
	}
	return o
}
