package kernel

type CandidacyID string

func NewCandidacyID(id string) CandidacyID { return CandidacyID(id) }
func (r CandidacyID) String() string       { return string(r) }
func (r CandidacyID) IsEmpty() bool        { return string(r) == "" }
func (r CandidacyID) IsValid() bool        { return IsValidID(string(r)) }

type ContactID string

func NewContactID(id string) ContactID { return ContactID(id) }
func (r ContactID) String() string     { return string(r) }
func (r ContactID) IsEmpty() bool      { return string(r) == "" }
func (r ContactID) IsValid() bool      { return IsValidID(string(r)) }
