package bundle

// fileRoot is the top-level structure of a bundle manifest. There is no
// remain body, so unknown blocks or attributes are rejected.
type fileRoot struct {
	Description     string                `hcl:"description,optional"`
	MaterialClasses []*materialClassBlock `hcl:"material_class,block"`
	Textures        []*textureBlock       `hcl:"texture,block"`
	Scenes          []*sceneBlock         `hcl:"scene,block"`
}

type materialClassBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description,optional"`
}

type textureBlock struct {
	Path   string `hcl:"path,label"`
	Width  int    `hcl:"width,optional"`
	Height int    `hcl:"height,optional"`
}

type sceneBlock struct {
	Path        string   `hcl:"path,label"`
	Description string   `hcl:"description,optional"`
	Nodes       []string `hcl:"nodes,optional"`
}
