package host

// ListItem is the host's presentation handle.
type ListItem struct {
	Label      string            `json:"label"`
	Label2     string            `json:"label2,omitempty"`
	Thumb      string            `json:"thumb,omitempty"`
	Path       string            `json:"path,omitempty"`
	InfoType   string            `json:"info_type,omitempty"`
	Info       map[string]any    `json:"info,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
	Folder     bool              `json:"folder"`
}

// SetInfo replaces the metadata block of kind infoType ("music", "video").
func (l *ListItem) SetInfo(infoType string, info map[string]any) {
	l.InfoType = infoType
	l.Info = info
}

// SetProperty stores a named string property.
func (l *ListItem) SetProperty(name, value string) {
	if l.Properties == nil {
		l.Properties = make(map[string]string)
	}
	l.Properties[name] = value
}

// Property returns a named property or "".
func (l *ListItem) Property(name string) string {
	return l.Properties[name]
}

// DefaultFactory builds plain ListItem handles.
type DefaultFactory struct{}

var _ Factory = DefaultFactory{}

func (DefaultFactory) CreateListItem(label, label2 string) *ListItem {
	return &ListItem{Label: label, Label2: label2}
}

func (DefaultFactory) CreatePlayableItem(url, label, thumb string, info map[string]any, properties map[string]string) DirectoryItem {
	item := &ListItem{Label: label, Thumb: thumb}
	if info != nil {
		item.SetInfo("music", info)
	}
	for k, v := range properties {
		item.SetProperty(k, v)
	}
	item.SetProperty("isPlayable", "true")
	return DirectoryItem{URL: url, Item: item, IsFolder: false}
}

func (DefaultFactory) CreateFolderItem(url, label, label2, thumb string, info map[string]any) DirectoryItem {
	item := &ListItem{Label: label, Label2: label2, Thumb: thumb, Folder: true}
	if info != nil {
		item.SetInfo("video", info)
	}
	item.SetProperty("isPlayable", "false")
	return DirectoryItem{URL: url, Item: item, IsFolder: true}
}

func (DefaultFactory) SetItemProperty(item *ListItem, name, value string) {
	item.SetProperty(name, value)
}

func (DefaultFactory) ItemProperty(item *ListItem, name string) string {
	return item.Property(name)
}

func (DefaultFactory) SetItemPath(item *ListItem, path string) {
	item.Path = path
}
