package macho

// Kind identifies which record shape a Command was decoded as.
type Kind uint8

const (
	KindNone Kind = iota // tag not decoded; only the prefix is known
	KindSymtab
	KindRoutines
	KindDysymtab
	KindDylib
	KindDylinker
	KindUUID
	KindSourceVersion
	KindVersionMin
	KindLinkEditData
	KindSegment64
	KindRoutines64
	KindDyldInfo
	KindEntryPoint
)

var kindStrings = []intName{
	{uint32(KindNone), "none"},
	{uint32(KindSymtab), "symtab"},
	{uint32(KindRoutines), "routines"},
	{uint32(KindDysymtab), "dysymtab"},
	{uint32(KindDylib), "dylib"},
	{uint32(KindDylinker), "dylinker"},
	{uint32(KindUUID), "uuid"},
	{uint32(KindSourceVersion), "source_version"},
	{uint32(KindVersionMin), "version_min"},
	{uint32(KindLinkEditData), "linkedit_data"},
	{uint32(KindSegment64), "segment_64"},
	{uint32(KindRoutines64), "routines_64"},
	{uint32(KindDyldInfo), "dyld_info"},
	{uint32(KindEntryPoint), "entry_point"},
}

func (k Kind) String() string { return stringName(uint32(k), kindStrings) }

// A Command is one decoded load command. The set of implementations is
// closed: callers switch on the concrete type or on Kind.
type Command interface {
	Record
	Command() LoadCmd
	LoadSize() uint32
	Kind() Kind
	isCommand()
}

func (*SymtabCmd) Kind() Kind        { return KindSymtab }
func (*RoutinesCmd) Kind() Kind      { return KindRoutines }
func (*DysymtabCmd) Kind() Kind      { return KindDysymtab }
func (*DylibCmd) Kind() Kind         { return KindDylib }
func (*DylinkerCmd) Kind() Kind      { return KindDylinker }
func (*UUIDCmd) Kind() Kind          { return KindUUID }
func (*SourceVersionCmd) Kind() Kind { return KindSourceVersion }
func (*VersionMinCmd) Kind() Kind    { return KindVersionMin }
func (*LinkEditDataCmd) Kind() Kind  { return KindLinkEditData }
func (*Segment64) Kind() Kind        { return KindSegment64 }
func (*Routines64Cmd) Kind() Kind    { return KindRoutines64 }
func (*DyldInfoCmd) Kind() Kind      { return KindDyldInfo }
func (*EntryPointCmd) Kind() Kind    { return KindEntryPoint }
func (*NoPayload) Kind() Kind        { return KindNone }

func (*SymtabCmd) isCommand()        {}
func (*RoutinesCmd) isCommand()      {}
func (*DysymtabCmd) isCommand()      {}
func (*DylibCmd) isCommand()         {}
func (*DylinkerCmd) isCommand()      {}
func (*UUIDCmd) isCommand()          {}
func (*SourceVersionCmd) isCommand() {}
func (*VersionMinCmd) isCommand()    {}
func (*LinkEditDataCmd) isCommand()  {}
func (*Segment64) isCommand()        {}
func (*Routines64Cmd) isCommand()    {}
func (*DyldInfoCmd) isCommand()      {}
func (*EntryPointCmd) isCommand()    {}
func (*NoPayload) isCommand()        {}

// ShapeOf returns the record shape the dispatcher decodes cmd as.
func ShapeOf(cmd LoadCmd) Kind {
	switch cmd {
	case LoadCmdSymtab:
		return KindSymtab
	case LoadCmdRoutines:
		return KindRoutines
	case LoadCmdDysymtab:
		return KindDysymtab
	case LoadCmdDylib, LoadCmdDylibID, LoadCmdLoadWeakDylib, LoadCmdReexportDylib:
		return KindDylib
	case LoadCmdDylinkerID, LoadCmdDylinker, LoadCmdDyldEnvironment:
		return KindDylinker
	case LoadCmdUUID:
		return KindUUID
	case LoadCmdSourceVersion:
		return KindSourceVersion
	case LoadCmdVersionMinMacosx, LoadCmdVersionMinIphoneos:
		return KindVersionMin
	case LoadCmdCodeSignature, LoadCmdSegmentSplitInfo, LoadCmdFunctionStarts,
		LoadCmdDataInCode, LoadCmdDylibCodeSignDrs:
		return KindLinkEditData
	case LoadCmdSegment64:
		return KindSegment64
	case LoadCmdRoutines64:
		return KindRoutines64
	case LoadCmdDyldInfoOnly:
		return KindDyldInfo
	case LoadCmdMain:
		return KindEntryPoint
	default:
		return KindNone
	}
}

// newCommand returns an empty record of kind k.
func newCommand(k Kind) Command {
	switch k {
	case KindSymtab:
		return new(SymtabCmd)
	case KindRoutines:
		return new(RoutinesCmd)
	case KindDysymtab:
		return new(DysymtabCmd)
	case KindDylib:
		return new(DylibCmd)
	case KindDylinker:
		return new(DylinkerCmd)
	case KindUUID:
		return new(UUIDCmd)
	case KindSourceVersion:
		return new(SourceVersionCmd)
	case KindVersionMin:
		return new(VersionMinCmd)
	case KindLinkEditData:
		return new(LinkEditDataCmd)
	case KindSegment64:
		return new(Segment64)
	case KindRoutines64:
		return new(Routines64Cmd)
	case KindDyldInfo:
		return new(DyldInfoCmd)
	case KindEntryPoint:
		return new(EntryPointCmd)
	default:
		return new(NoPayload)
	}
}

// DecodeCommand reads the command starting at the cursor as the record
// shape implied by cmd. The cursor must sit on the command's prefix and is
// left there; advancing past the command is up to the caller.
//
// Tags without a known shape decode to *NoPayload holding just the prefix.
func DecodeCommand(r *Reader, cmd LoadCmd) (Command, error) {
	off, err := r.Offset()
	if err != nil {
		return nil, err
	}
	c := newCommand(ShapeOf(cmd))
	b := make([]byte, c.Size())
	if err := r.peek(b); err != nil {
		return nil, &FormatError{Off: off, Msg: "reading " + cmd.String(), Err: err}
	}
	c.Decode(b, r.ByteOrder())
	return c, nil
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
