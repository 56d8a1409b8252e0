// Package testutil provides test utilities and fixture documents for unit tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oasbind/document"
)

// PathItemYAML exercises PathItem template merging: /a and /b point at /c,
// which in turn points at /d.
const PathItemYAML = `
swagger: "2.0"
info: {title: path item, version: "1.0"}
paths:
  /a:
    $ref: "#/paths/~1c"
    get:
      operationId: a.get
      responses:
        default: {description: a.get}
  /b:
    $ref: "#/paths/~1c"
    get:
      operationId: b.get
      responses:
        default: {description: b.get}
  /c:
    $ref: "#/paths/~1d"
    summary: c summary
    put:
      operationId: c.put
      description: c.put
      responses:
        default: {description: c.put}
  /d:
    summary: d summary
    description: d description
    parameters:
      - {name: trace, in: header, type: string}
    post:
      operationId: d.post
      description: d.post
      responses:
        default: {description: d.post}
`

// OtherYAML exercises parameter, response and schema references.
const OtherYAML = `
swagger: "2.0"
info: {title: other, version: "1.0"}
parameters:
  p1_d: {name: p1_d, in: query, type: string}
  p2_d: {name: p2_d, in: query, type: string}
  p3_d: {$ref: "#/parameters/p3_d_real"}
  p3_d_real: {name: p3_d, in: query, type: integer}
  p4_d: {name: p4_d, in: header, type: string}
responses:
  r1: {description: "void, r1"}
definitions:
  d1:
    type: object
    properties:
      id: {type: integer}
paths:
  /a:
    parameters:
      - {name: p1_d, in: query, type: integer}
      - {name: p5_d, in: query, type: string}
    get:
      operationId: a.get
      parameters:
        - $ref: "#/parameters/p1_d"
        - $ref: "#/parameters/p2_d"
        - name: p2
          in: body
          schema: {$ref: "#/definitions/d1"}
        - $ref: "#/parameters/p3_d"
        - $ref: "#/parameters/p4_d"
      responses:
        default: {$ref: "#/responses/r1"}
`

// DerefYAML holds a chain of schema references s1 -> s2 -> s3 -> s4 and a
// pure reference cycle c1 -> c2 -> c1.
const DerefYAML = `
swagger: "2.0"
info: {title: deref, version: "1.0"}
paths: {}
definitions:
  s1: {$ref: "#/definitions/s2"}
  s2: {$ref: "#/definitions/s3"}
  s3: {$ref: "#/definitions/s4"}
  s4:
    type: object
    properties:
      name: {type: string}
  c1: {$ref: "#/definitions/c2"}
  c2: {$ref: "#/definitions/c1"}
  self: {$ref: "#/definitions/self"}
`

// CrossMainYAML references definitions held in CrossOtherYAML.
const CrossMainYAML = `
swagger: "2.0"
info: {title: cross, version: "1.0"}
paths: {}
definitions:
  Owner:
    type: object
    properties:
      tag: {$ref: "other.yaml#/definitions/Tag"}
      tags:
        type: array
        items: {$ref: "other.yaml#/definitions/Tag"}
`

// CrossOtherYAML is the second document of the cross-document fixture.
const CrossOtherYAML = `
definitions:
  Tag:
    type: object
    required: [name]
    properties:
      name: {type: string}
      parent: {$ref: "#/definitions/Tag"}
`

// CycleYAML holds a PathItem template cycle.
const CycleYAML = `
swagger: "2.0"
info: {title: cycle, version: "1.0"}
paths:
  /x:
    $ref: "#/paths/~1y"
  /y:
    $ref: "#/paths/~1x"
`

// UserYAML models a small inheritance hierarchy: User <- UserWithInfo <- Admin.
const UserYAML = `
swagger: "2.0"
info: {title: users, version: "1.0"}
host: users.example.com
basePath: /api
schemes: [http]
consumes: [application/json]
produces: [application/json]
paths:
  /user:
    post:
      operationId: createUser
      parameters:
        - {name: body, in: body, required: true, schema: {$ref: "#/definitions/User"}}
      responses:
        "200": {description: ok}
  /user/{username}:
    get:
      operationId: getUserByName
      parameters:
        - {name: username, in: path, required: true, type: string}
      responses:
        "200":
          description: ok
          schema: {$ref: "#/definitions/User"}
        "404": {description: not found}
definitions:
  User:
    type: object
    required: [id, username]
    properties:
      id: {type: integer, format: int64}
      username: {type: string}
      password: {type: string}
  UserWithInfo:
    allOf:
      - $ref: "#/definitions/User"
      - type: object
        required: [email]
        properties:
          email: {type: string, format: email}
          phone: {type: string}
  Admin:
    allOf:
      - $ref: "#/definitions/UserWithInfo"
      - type: object
        required: [level]
        properties:
          level: {type: integer, format: int32}
  Animal:
    type: object
    discriminator: kind
    required: [kind]
    properties:
      kind: {type: string}
  Dog:
    allOf:
      - $ref: "#/definitions/Animal"
      - properties:
          bark: {type: boolean}
  Cat:
    allOf:
      - $ref: "#/definitions/Animal"
      - properties:
          lives: {type: integer}
`

// PetstoreYAML is a Swagger 2.0 pet store covering every parameter location.
const PetstoreYAML = `
swagger: "2.0"
info: {title: petstore, version: "1.0.0"}
host: petstore.example.com
basePath: /api
schemes: [http]
consumes: [application/json]
produces: [application/json]
paths:
  /pet:
    post:
      operationId: addPet
      parameters:
        - {name: body, in: body, required: true, schema: {$ref: "#/definitions/Pet"}}
      responses:
        "200": {description: ok}
        "409": {description: conflict}
    put:
      operationId: updatePet
      parameters:
        - {name: body, in: body, required: true, schema: {$ref: "#/definitions/Pet"}}
      responses:
        "200": {description: ok}
        "400": {description: invalid id}
        "404": {description: not found}
  /pet/findByStatus:
    get:
      operationId: findPetsByStatus
      parameters:
        - name: status
          in: query
          type: array
          collectionFormat: csv
          items: {type: string, enum: [available, pending, sold]}
        - {name: limit, in: query, type: integer, format: int32, default: 20}
      responses:
        "200":
          description: ok
          schema:
            type: array
            items: {$ref: "#/definitions/Pet"}
  /pet/findByTags:
    get:
      operationId: findPetsByTags
      parameters:
        - {name: tags, in: query, type: array, collectionFormat: multi, items: {type: string}}
      responses:
        "200":
          description: ok
          schema:
            type: array
            items: {$ref: "#/definitions/Pet"}
  /pet/{petId}:
    parameters:
      - {name: petId, in: path, required: true, type: integer, format: int64}
    get:
      operationId: getPetById
      responses:
        "200":
          description: ok
          schema: {$ref: "#/definitions/Pet"}
        "4XX":
          description: client error
          schema: {$ref: "#/definitions/Error"}
        default:
          description: unexpected
          schema: {$ref: "#/definitions/Error"}
    post:
      operationId: updatePetWithForm
      consumes: [application/x-www-form-urlencoded]
      parameters:
        - {name: name, in: formData, type: string}
        - {name: status, in: formData, type: string}
      responses:
        "200": {description: ok}
    delete:
      operationId: deletePet
      parameters:
        - {name: api_key, in: header, type: string}
      responses:
        "200": {description: ok}
        "400": {description: invalid id}
  /pet/uploadImage:
    post:
      operationId: uploadFile
      consumes: [multipart/form-data]
      parameters:
        - {name: additionalMetadata, in: formData, type: string}
        - {name: file, in: formData, type: file}
      responses:
        "200": {description: ok}
  /upload:
    post:
      operationId: upload_images
      consumes: [multipart/form-data]
      parameters:
        - {name: images, in: formData, required: true, type: file}
      responses:
        "200": {description: ok}
  /echo:
    get:
      operationId: echo
      produces: [text/plain]
      responses:
        "200":
          description: ok
          schema: {type: string}
definitions:
  Category:
    type: object
    properties:
      id: {type: integer, format: int64}
      name: {type: string}
  Tag:
    type: object
    properties:
      id: {type: integer, format: int64}
      name: {type: string}
  Pet:
    type: object
    required: [id, name]
    properties:
      id: {type: integer, format: int64}
      name: {type: string}
      category: {$ref: "#/definitions/Category"}
      tags:
        type: array
        items: {$ref: "#/definitions/Tag"}
      status: {type: string, enum: [available, pending, sold]}
  Error:
    type: object
    required: [code]
    properties:
      code: {type: integer, format: int32}
      message: {type: string}
`

// NewStore parses the given documents into a Store. The first locator in
// order becomes the main document.
func NewStore(t *testing.T, order []string, docs map[string]string) *document.Store {
	t.Helper()

	store := document.NewStore()
	for _, locator := range order {
		doc, err := document.Parse(locator, []byte(docs[locator]))
		if err != nil {
			t.Fatalf("Failed to parse fixture %s: %v", locator, err)
		}
		if err := store.Add(doc); err != nil {
			t.Fatalf("Failed to add fixture %s: %v", locator, err)
		}
	}
	return store
}

// NewSingleStore parses one document into a Store under locator.
func NewSingleStore(t *testing.T, locator, data string) *document.Store {
	t.Helper()
	return NewStore(t, []string{locator}, map[string]string{locator: data})
}

// WriteTempFile writes data to name inside a fresh temporary directory and
// returns the directory. The directory is removed when the test completes.
func WriteTempFile(t *testing.T, name, data string) string {
	t.Helper()

	dir := t.TempDir()
	target := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}
	if err := os.WriteFile(target, []byte(data), 0o600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return dir
}
