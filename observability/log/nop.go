package log

var _ Log = Nop{}

// Nop discards every entry. Kit packages default to it when the caller
// supplies no logger.
type Nop struct{}

func NewNop() Log { return Nop{} }

func (Nop) Log(Level, string, ...Field) {}
func (Nop) Debug(string, ...Field)      {}
func (Nop) Info(string, ...Field)       {}
func (Nop) Warn(string, ...Field)       {}
func (Nop) Error(string, ...Field)      {}
func (Nop) Fatal(string, ...Field)      {}
func (Nop) With(...Field) Log           { return Nop{} }
func (Nop) SetLevel(Level)              {}
func (Nop) GetLevel() Level             { return LevelFatal }
