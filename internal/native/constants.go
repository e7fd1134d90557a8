package native

// Error codes reported through the error callback.
const (
	NoError            int32 = 0
	NotInitialized     int32 = 0x00010001
	NoCurrentContext   int32 = 0x00010002
	InvalidEnum        int32 = 0x00010003
	InvalidValue       int32 = 0x00010004
	OutOfMemory        int32 = 0x00010005
	APIUnavailable     int32 = 0x00010006
	VersionUnavailable int32 = 0x00010007
	PlatformError      int32 = 0x00010008
	FormatUnavailable  int32 = 0x00010009
	NoWindowContext    int32 = 0x0001000A
)

// Window hints and attributes used by the binding layer.
const (
	Focused     int32 = 0x00020001
	Iconified   int32 = 0x00020002
	Resizable   int32 = 0x00020003
	Visible     int32 = 0x00020004
	Decorated   int32 = 0x00020005
	Floating    int32 = 0x00020007
	Maximized   int32 = 0x00020008
	Hovered     int32 = 0x0002000B
	ClientAPI   int32 = 0x00022001
	ContextAPI  int32 = 0x0002200B
	NoAPI       int32 = 0
	OpenGLAPI   int32 = 0x00030001
	OpenGLESAPI int32 = 0x00030002

	NativeContextAPI int32 = 0x00036001
	EGLContextAPI    int32 = 0x00036002
	OSMesaContextAPI int32 = 0x00036003

	True  int32 = 1
	False int32 = 0
)

// Values of the event argument of monitor and joystick callbacks.
const (
	Connected    int32 = 0x00040001
	Disconnected int32 = 0x00040002
)

// DontCare leaves a hint to the library's choosing.
const DontCare int32 = -1
