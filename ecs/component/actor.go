package component

// Actor names an entity so requests and scripts can address it.
type Actor struct {
	Name string
}

var ActorComponent = NewComponent[Actor]()
