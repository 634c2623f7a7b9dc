package feed

import "github.com/kasuganosora/craftmirror/gamestate"

// IdentityResolver attributes a connection identity to a player. Both
// maps are built once from the user and player tables; the client
// rebuilds the resolver on every (re)connect, never mid-connection.
type IdentityResolver struct {
	entityByIdentity map[string]int64
	playerByEntity   map[int64]gamestate.PlayerRow
}

// NewIdentityResolver builds the identity→entity and entity→player
// join from the given tables.
func NewIdentityResolver(users []gamestate.UserRow, players []gamestate.PlayerRow) *IdentityResolver {
	r := &IdentityResolver{
		entityByIdentity: make(map[string]int64, len(users)),
		playerByEntity:   make(map[int64]gamestate.PlayerRow, len(players)),
	}
	for _, u := range users {
		if u.Identity != "" {
			r.entityByIdentity[u.Identity] = u.EntityID
		}
	}
	for _, p := range players {
		r.playerByEntity[p.EntityID] = p
	}
	return r
}

// Resolve maps an identity to its player entity id and display name.
// ok is false for unknown identities; a known identity with no player
// row still resolves with an empty name.
func (r *IdentityResolver) Resolve(identity string) (entityID int64, name string, ok bool) {
	entityID, ok = r.entityByIdentity[identity]
	if !ok {
		return 0, "", false
	}
	return entityID, r.playerByEntity[entityID].Username, true
}
