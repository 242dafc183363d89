package pgtask

import "strings"

// IsolationLevel selects the isolation clause of the opening command.
type IsolationLevel int

const (
	IsolationNone IsolationLevel = iota
	IsolationSerializable
	IsolationRepeatableRead
	IsolationReadCommitted
)

// AccessMode selects the read only / read write clause.
type AccessMode int

const (
	AccessUnspecified AccessMode = iota
	AccessReadOnly
	AccessReadWrite
)

// DeferrableMode selects the deferrable clause. It is only emitted for
// serializable read-only transactions; otherwise it is silently dropped.
type DeferrableMode int

const (
	DeferrableUnspecified DeferrableMode = iota
	Deferrable
	NotDeferrable
)

// TxModeOptions configures a TxMode. It is only read during NewTxMode.
type TxModeOptions struct {
	Isolation  IsolationLevel
	Access     AccessMode
	Deferrable DeferrableMode
}

// TxMode renders a transaction-opening command with an isolation
// level, access mode and deferrable mode. Immutable once constructed.
type TxMode struct {
	isolation  IsolationLevel
	access     AccessMode
	deferrable DeferrableMode
}

func NewTxMode(opts TxModeOptions) *TxMode {
	return &TxMode{
		isolation:  opts.Isolation,
		access:     opts.Access,
		deferrable: opts.Deferrable,
	}
}

// Begin renders the opening command, upper-case when capitalize is set.
func (m *TxMode) Begin(capitalize bool) string {
	parts := []string{"begin"}

	switch m.isolation {
	case IsolationSerializable:
		parts = append(parts, "isolation level serializable")
	case IsolationRepeatableRead:
		parts = append(parts, "isolation level repeatable read")
	case IsolationReadCommitted:
		parts = append(parts, "isolation level read committed")
	}

	switch m.access {
	case AccessReadOnly:
		parts = append(parts, "read only")
	case AccessReadWrite:
		parts = append(parts, "read write")
	}

	if m.isolation == IsolationSerializable && m.access == AccessReadOnly {
		switch m.deferrable {
		case Deferrable:
			parts = append(parts, "deferrable")
		case NotDeferrable:
			parts = append(parts, "not deferrable")
		}
	}

	cmd := strings.Join(parts, " ")
	if capitalize {
		cmd = strings.ToUpper(cmd)
	}
	return cmd
}
